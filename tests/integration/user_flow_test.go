package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"os"
	"testing"
	"time"
)

// TestSocialFlow walks the whole happy path against a running server:
// register two users, log in, upload a photo, search, add a friend, verify
// the duplicate add is rejected and the friend list is correct.
func TestSocialFlow(t *testing.T) {
	baseURL := os.Getenv("INTEGRATION_BASE_URL")
	if baseURL == "" {
		t.Skip("INTEGRATION_BASE_URL not set; skipping integration test")
	}

	suffix := time.Now().UnixNano()
	alice := account{
		Username: fmt.Sprintf("alice_%d", suffix),
		Email:    fmt.Sprintf("alice_%d@x.com", suffix),
		Password: "pw123",
		FullName: "Alice Integration",
	}
	bob := account{
		Username: fmt.Sprintf("bob_%d", suffix),
		Email:    fmt.Sprintf("bob_%d@x.com", suffix),
		Password: "pw456",
		FullName: "Bob Integration",
	}

	aliceClient := newClient(t)
	bobClient := newClient(t)

	// Register + login both users.
	register(t, aliceClient, baseURL, alice)
	register(t, bobClient, baseURL, bob)
	aliceID := login(t, aliceClient, baseURL, alice)
	login(t, bobClient, baseURL, bob)

	// Alice uploads one photo; her dashboard shows it as primary.
	uploadPhoto(t, aliceClient, baseURL)
	dashboard := getJSON(t, aliceClient, baseURL+"/api/v1/dashboard")
	photos, ok := dashboard["photos"].([]interface{})
	if !ok || len(photos) != 1 {
		t.Fatalf("dashboard expected 1 photo, got %v", dashboard["photos"])
	}

	// Bob finds Alice via search; she is not yet a friend.
	results := searchUsers(t, bobClient, baseURL, alice.Username)
	hit := findUser(t, results, alice.Username)
	if hit["is_friend"] != false || hit["is_self"] != false {
		t.Fatalf("expected is_friend=false is_self=false, got %v", hit)
	}

	// Bob adds Alice; the repeated add must be rejected as a duplicate.
	if status := addFriend(t, bobClient, baseURL, aliceID); status != http.StatusCreated {
		t.Fatalf("add friend failed: status=%d", status)
	}
	if status := addFriend(t, bobClient, baseURL, aliceID); status != http.StatusConflict {
		t.Fatalf("duplicate add expected 409, got %d", status)
	}

	// Bob's friend list contains exactly Alice.
	friendsResp := getJSON(t, bobClient, baseURL+"/api/v1/friends")
	friends, ok := friendsResp["friends"].([]interface{})
	if !ok || len(friends) != 1 {
		t.Fatalf("expected exactly one friend, got %v", friendsResp["friends"])
	}
	friend := friends[0].(map[string]interface{})
	if friend["username"] != alice.Username {
		t.Fatalf("expected friend %q, got %v", alice.Username, friend["username"])
	}

	// Search again: Alice is annotated as a friend now.
	results = searchUsers(t, bobClient, baseURL, alice.Username)
	hit = findUser(t, results, alice.Username)
	if hit["is_friend"] != true {
		t.Fatalf("expected is_friend=true after add, got %v", hit)
	}
}

type account struct {
	Username string
	Email    string
	Password string
	FullName string
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Timeout: 10 * time.Second, Jar: jar}
}

func register(t *testing.T, client *http.Client, baseURL string, acc account) {
	body := map[string]string{
		"username":  acc.Username,
		"email":     acc.Email,
		"password":  acc.Password,
		"full_name": acc.FullName,
	}
	status, _ := postJSON(t, client, baseURL+"/api/v1/users/register", body)
	if status != http.StatusCreated {
		t.Fatalf("register %s failed: status=%d", acc.Username, status)
	}
}

func login(t *testing.T, client *http.Client, baseURL string, acc account) float64 {
	body := map[string]string{"email": acc.Email, "password": acc.Password}
	status, resp := postJSON(t, client, baseURL+"/api/v1/users/login", body)
	if status != http.StatusOK {
		t.Fatalf("login %s failed: status=%d", acc.Username, status)
	}
	user, ok := resp["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("login response missing user: %v", resp)
	}
	id, ok := user["id"].(float64)
	if !ok {
		t.Fatalf("login response missing user id: %v", user)
	}
	return id
}

func uploadPhoto(t *testing.T, client *http.Client, baseURL string) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 150))
	for x := 0; x < 200; x++ {
		img.Set(x, 75, color.RGBA{R: 255, A: 255})
	}
	var imgBuf bytes.Buffer
	if err := jpeg.Encode(&imgBuf, img, nil); err != nil {
		t.Fatalf("encode test image: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="photo"; filename="photo.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create multipart part: %v", err)
	}
	if _, err := part.Write(imgBuf.Bytes()); err != nil {
		t.Fatalf("write multipart part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPost, baseURL+"/api/v1/photos", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload failed: status=%d", resp.StatusCode)
	}
}

func searchUsers(t *testing.T, client *http.Client, baseURL, query string) []interface{} {
	resp := getJSON(t, client, baseURL+"/api/v1/users/search?q="+query)
	users, ok := resp["users"].([]interface{})
	if !ok {
		t.Fatalf("search response missing users: %v", resp)
	}
	return users
}

func findUser(t *testing.T, results []interface{}, username string) map[string]interface{} {
	for _, r := range results {
		user, ok := r.(map[string]interface{})
		if ok && user["username"] == username {
			return user
		}
	}
	t.Fatalf("user %q not found in search results", username)
	return nil
}

func addFriend(t *testing.T, client *http.Client, baseURL string, friendID float64) int {
	body := map[string]interface{}{"friend_id": friendID}
	status, _ := postJSON(t, client, baseURL+"/api/v1/friends", body)
	return status
}

func postJSON(t *testing.T, client *http.Client, url string, body interface{}) (int, map[string]interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)
	return resp.StatusCode, result
}

func getJSON(t *testing.T, client *http.Client, url string) map[string]interface{} {
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("request %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status=%d", url, resp.StatusCode)
	}
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
	return result
}
