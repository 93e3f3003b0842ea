// Command-line smoke test that exercises the HTTP surface of a running
// server: register/login/profile/search/add-friend flows, plus a concurrent
// duplicate-add run to confirm the edge uniqueness holds under races.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"
)

const baseURL = "http://127.0.0.1:8080/api/v1"

// newClient returns a client with its own cookie jar, i.e. its own session.
func newClient() *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Timeout: 10 * time.Second, Jar: jar}
}

// doJSON serializes a JSON body and performs the request on the client.
func doJSON(client *http.Client, method, url string, body any) (int, []byte, error) {
	var buf []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		buf = b
	}
	req, _ := http.NewRequest(method, url, bytes.NewReader(buf))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data, nil
}

func register(client *http.Client, username, email, password string) (int, []byte, error) {
	body := map[string]string{
		"username":  username,
		"email":     email,
		"password":  password,
		"full_name": username,
	}
	return doJSON(client, http.MethodPost, baseURL+"/users/register", body)
}

func login(client *http.Client, email, password string) (int, []byte, error) {
	body := map[string]string{"email": email, "password": password}
	return doJSON(client, http.MethodPost, baseURL+"/users/login", body)
}

func userIDFromLogin(data []byte) (uint64, error) {
	var resp struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, err
	}
	return resp.User.ID, nil
}

// endpointSmokeTests exercises the auth and profile endpoints with positive
// and negative cases.
func endpointSmokeTests() error {
	suffix := time.Now().UnixNano() % 1000000
	username := fmt.Sprintf("smoke%d", suffix)
	email := fmt.Sprintf("smoke%d@x.com", suffix)
	password := "SmokePwd123!"
	client := newClient()

	if status, _, err := register(client, username, email, password); err != nil || status != http.StatusCreated {
		return fmt.Errorf("register (new) failed: status=%d err=%v", status, err)
	}
	if status, _, err := register(client, username, email, password); err != nil || status != http.StatusConflict {
		return fmt.Errorf("register (duplicate) expected 409, got %d err=%v", status, err)
	}
	if status, _, err := register(newClient(), "", "", ""); err != nil || status != http.StatusBadRequest {
		return fmt.Errorf("register (empty) expected 400, got %d err=%v", status, err)
	}

	if status, _, err := login(client, email, "wrong-password"); err != nil || status != http.StatusUnauthorized {
		return fmt.Errorf("login (invalid creds) expected 401, got %d err=%v", status, err)
	}
	status, _, err := login(client, email, password)
	if err != nil || status != http.StatusOK {
		return fmt.Errorf("login (valid) failed: status=%d err=%v", status, err)
	}

	// Profile update refreshes the session projection and flashes.
	profile := map[string]string{
		"username":  username,
		"email":     email,
		"full_name": username + " Renamed",
	}
	if status, data, err := doJSON(client, http.MethodPut, baseURL+"/profile", profile); err != nil || status != http.StatusOK {
		return fmt.Errorf("profile update failed: status=%d err=%v body=%s", status, err, string(data))
	}
	if status, _, err := doJSON(client, http.MethodGet, baseURL+"/dashboard", nil); err != nil || status != http.StatusOK {
		return fmt.Errorf("dashboard failed: status=%d err=%v", status, err)
	}

	// Logout kills the session; the dashboard must now refuse us.
	if status, _, err := doJSON(client, http.MethodPost, baseURL+"/users/logout", nil); err != nil || status != http.StatusOK {
		return fmt.Errorf("logout failed: status=%d err=%v", status, err)
	}
	if status, _, err := doJSON(client, http.MethodGet, baseURL+"/dashboard", nil); err != nil || status != http.StatusUnauthorized {
		return fmt.Errorf("dashboard after logout expected 401, got %d err=%v", status, err)
	}

	log.Println("endpoint smoke tests passed")
	return nil
}

// concurrentDuplicateAddTest fires the same add-friend request from many
// goroutines at once; exactly one may win, the rest must see 409.
func concurrentDuplicateAddTest(workers int) error {
	suffix := time.Now().UnixNano() % 1000000
	password := "RacePwd123!"

	target := newClient()
	targetName := fmt.Sprintf("race_target%d", suffix)
	if status, _, err := register(target, targetName, targetName+"@x.com", password); err != nil || status != http.StatusCreated {
		return fmt.Errorf("register target failed: status=%d err=%v", status, err)
	}
	_, data, err := login(target, targetName+"@x.com", password)
	if err != nil {
		return err
	}
	targetID, err := userIDFromLogin(data)
	if err != nil {
		return err
	}

	source := newClient()
	sourceName := fmt.Sprintf("race_source%d", suffix)
	if status, _, err := register(source, sourceName, sourceName+"@x.com", password); err != nil || status != http.StatusCreated {
		return fmt.Errorf("register source failed: status=%d err=%v", status, err)
	}
	if status, _, err := login(source, sourceName+"@x.com", password); err != nil || status != http.StatusOK {
		return fmt.Errorf("login source failed: status=%d err=%v", status, err)
	}

	var wg sync.WaitGroup
	statuses := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, _, err := doJSON(source, http.MethodPost, baseURL+"/friends", map[string]uint64{"friend_id": targetID})
			if err != nil {
				statuses <- 0
				return
			}
			statuses <- status
		}()
	}
	wg.Wait()
	close(statuses)

	created, conflicts, other := 0, 0, 0
	for status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		default:
			other++
		}
	}
	if created != 1 || other != 0 {
		return fmt.Errorf("concurrent add: created=%d conflicts=%d other=%d, want exactly one winner", created, conflicts, other)
	}

	log.Printf("concurrent duplicate-add test passed: 1 created, %d conflicts", conflicts)
	return nil
}

func main() {
	if err := endpointSmokeTests(); err != nil {
		log.Fatalf("endpoint smoke tests failed: %v", err)
	}
	if err := concurrentDuplicateAddTest(8); err != nil {
		log.Fatalf("concurrent duplicate-add test failed: %v", err)
	}
	fmt.Println("All smoke tests completed successfully!")
}
