package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"regexp"
	"time"

	"khabee/jwt"
	"khabee/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const otpTTL = 5 * time.Minute

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func otpKey(phone string) string {
	return "otp:" + phone
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// storeOTP keeps only a bcrypt hash of the code, bounded by the OTP TTL.
func storeOTP(ctx context.Context, rdb *redis.Client, phone, code string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, otpKey(phone), hash, otpTTL).Err()
}

// verifyStoredOTP checks the code against the stored hash and consumes it on
// success. A missing or expired key reads as a failed verification.
func verifyStoredOTP(ctx context.Context, rdb *redis.Client, phone, code string) (bool, error) {
	hash, err := rdb.Get(ctx, otpKey(phone)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(code)) != nil {
		return false, nil
	}
	if err := rdb.Del(ctx, otpKey(phone)).Err(); err != nil {
		log.Printf("failed to consume OTP: %v\n", err)
	}
	return true, nil
}

// RequestOTPHandler issues a one-time code for a phone number. There is no
// SMS gateway in this deployment; the code lands in the server log.
func RequestOTPHandler(c *gin.Context, rdb *redis.Client) {
	var otpReq struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&otpReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid phone payload")
		return
	}

	if !ValidatePhone(otpReq.Phone) {
		fail(c, http.StatusBadRequest, "invalid phone number")
		return
	}

	code, err := generateOTP()
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to generate code")
		return
	}

	if err := storeOTP(c, rdb, otpReq.Phone, code); err != nil {
		log.Printf("failed to store OTP: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to store code")
		return
	}

	log.Printf("OTP for %s: %s\n", otpReq.Phone, code)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// VerifyOTPHandler exchanges a valid code for a session token, creating the
// user profile on first login.
func VerifyOTPHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	var verifyReq struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&verifyReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid verification payload")
		return
	}

	valid, err := verifyStoredOTP(c, rdb, verifyReq.Phone, verifyReq.Code)
	if err != nil {
		log.Printf("failed to verify OTP: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to verify code")
		return
	}
	if !valid {
		fail(c, http.StatusBadRequest, "invalid or expired code")
		return
	}

	user := models.User{
		Phone: verifyReq.Phone,
		Role:  models.RoleCustomer,
	}
	if err := db.Where("phone = ?", verifyReq.Phone).FirstOrCreate(&user).Error; err != nil {
		log.Printf("failed to create user profile: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to create user profile")
		return
	}

	tokenExpiredTime := time.Now().Add(time.Hour * 24)
	token, err := jwt.GenerateToken(user.ID, user.Role, tokenExpiredTime.Unix())
	if err != nil {
		log.Printf("failed to generate token: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to generate session token")
		return
	}

	loginToken := models.LoginToken{
		Token:          token,
		ExpirationTime: tokenExpiredTime,
		UserID:         user.ID,
		Role:           user.Role,
	}
	if err := db.Create(&loginToken).Error; err != nil {
		log.Printf("failed to store login token: %v\n", err)
		fail(c, http.StatusInternalServerError, "failed to store session token")
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    user.ID,
			"phone": user.Phone,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func GetUserProfileHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var user models.User
	err := db.Preload("Kitchens").First(&user, "id = ?", userID).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	var orderCount int64
	db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&orderCount)

	kitchens := make([]gin.H, 0, len(user.Kitchens))
	for _, kitchen := range user.Kitchens {
		kitchens = append(kitchens, gin.H{
			"id":          kitchen.ID,
			"name":        kitchen.Name,
			"description": kitchen.Description,
			"logo":        kitchen.Logo,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":         user.ID,
			"phone":      user.Phone,
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"kitchens":   kitchens,
			"orderCount": orderCount,
		},
	})
}

func UpdateUserProfileHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired.Error())
		return
	}

	var profileReq struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&profileReq); err != nil {
		fail(c, http.StatusBadRequest, "invalid profile payload")
		return
	}

	updates := map[string]interface{}{}
	if profileReq.Name != nil {
		updates["name"] = *profileReq.Name
	}
	if profileReq.Email != nil {
		updates["email"] = *profileReq.Email
	}

	if len(updates) > 0 {
		err := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
		if err != nil {
			log.Printf("failed to update profile: %v\n", err)
			fail(c, http.StatusInternalServerError, "failed to update profile")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

func LogOutHandler(c *gin.Context, db *gorm.DB) {
	token, exists := c.Get("Token")
	if !exists {
		fail(c, http.StatusBadRequest, "failed to read session token")
		return
	}

	err := db.Where("token = ?", token).Delete(&models.LoginToken{}).Error
	if err != nil {
		fail(c, http.StatusInternalServerError, "failed to log out")
		return
	}

	c.Header("Authorization", "")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
