package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	v1 "socialbook/api/v1"
	"socialbook/config"
	"socialbook/dao"
	"socialbook/internal/auth"
	myvalidator "socialbook/internal/validator"
	"socialbook/middleware"
	"socialbook/model"
	"socialbook/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../"
	}
	config.InitConfig(configPath)
	config.InitRedis()

	db, err := gorm.Open(mysql.Open(config.GlobalConfig.MySQL.DSN), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.Photo{}, &model.Friendship{}); err != nil {
		panic(err)
	}

	userDAO := dao.NewUserDAO(db)
	photoDAO := dao.NewPhotoDAO(db)
	friendshipDAO := dao.NewFriendshipDAO(db)

	sessionTTL := time.Duration(config.GlobalConfig.Session.TTL) * time.Second
	sessions := auth.NewSessionManager(config.RedisClient, sessionTTL)

	userService := service.NewUserService(userDAO, photoDAO)
	galleryService := service.NewGalleryService(photoDAO)
	friendService := service.NewFriendService(userDAO, friendshipDAO, photoDAO)

	cookie := v1.CookieConfig{
		Secret: config.GlobalConfig.Session.Secret,
		Name:   config.GlobalConfig.Session.CookieName,
		TTL:    sessionTTL,
	}
	userAPI := v1.NewUserAPI(userService, galleryService, sessions, cookie)
	galleryAPI := v1.NewGalleryAPI(galleryService, sessions)
	friendAPI := v1.NewFriendAPI(friendService, sessions)

	r := gin.Default()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 注册自定义校验器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("phone", myvalidator.IsPhone); err != nil {
			panic(err)
		}
	}

	// 公共路由
	public := r.Group("/api/v1")
	{
		public.POST("/users/register", userAPI.Register)
		public.POST("/users/login", userAPI.Login)
	}

	// 私有路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(sessions, cookie.Secret, cookie.Name))
	{
		private.POST("/users/logout", userAPI.Logout)
		private.GET("/dashboard", userAPI.Dashboard)
		private.GET("/profile", userAPI.GetProfile)
		private.PUT("/profile", userAPI.UpdateProfile)

		private.GET("/photos", galleryAPI.List)
		private.POST("/photos", galleryAPI.Upload)
		private.DELETE("/photos/:index", galleryAPI.Remove)

		private.GET("/users/search", friendAPI.Search)
		private.POST("/friends", friendAPI.Add)
		private.GET("/friends", friendAPI.List)

		private.GET("/admin/users", userAPI.AdminListUsers)
	}

	if err := r.Run(config.GlobalConfig.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
