package controllers

import (
	"fmt"
	"net/http"

	"fittrack/services"
	"fittrack/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	Users       *services.UserService
	Portability *services.PortabilityService
	Records     *services.RecordService
	Log         *zap.Logger
}

func NewUserController(users *services.UserService, portability *services.PortabilityService, records *services.RecordService, log *zap.Logger) *UserController {
	return &UserController{Users: users, Portability: portability, Records: records, Log: log}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	profile, err := uc.Users.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input services.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := uc.Users.UpdateProfile(c.Request.Context(), userID, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

func (uc *UserController) UpdateGoals(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input struct {
		GoalType       string   `json:"goalType"`
		TargetWeight   float64  `json:"targetWeight"`
		StartingWeight *float64 `json:"startingWeight"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := uc.Users.UpdateGoals(c.Request.Context(), userID, input.GoalType, input.TargetWeight, input.StartingWeight); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goals updated"})
}

func (uc *UserController) UpdateNotifications(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input struct {
		WeeklySummary bool `json:"weeklySummary"`
		DailyReminder bool `json:"dailyReminder"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := uc.Users.UpdateNotifications(c.Request.Context(), userID, input.WeeklySummary, input.DailyReminder); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "preferences updated"})
}

func (uc *UserController) ChangePassword(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := uc.Users.ChangePassword(c.Request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}

// UploadAvatar decodes the base64 payload, runs it past moderation,
// then stores it on S3 and saves the CDN URL.
func (uc *UserController) UploadAvatar(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input struct {
		ImageBase64 string `json:"imageBase64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	data, contentType, err := utils.DecodeBase64Image(input.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image data"})
		return
	}

	labels, err := utils.ModerateAvatarImage(data)
	if err != nil {
		uc.Log.Warn("avatar moderation failed", zap.Uint("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "moderation check failed"})
		return
	}
	if len(labels) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "image rejected by moderation", "labels": labels})
		return
	}

	url, err := utils.UploadAvatarToS3(data, contentType, fmt.Sprintf("user-%d", userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed", "detail": err.Error()})
		return
	}
	if err := uc.Users.SetAvatar(c.Request.Context(), userID, url); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

func (uc *UserController) RemoveAvatar(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := uc.Users.SetAvatar(c.Request.Context(), userID, ""); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "avatar removed"})
}

func (uc *UserController) CommonActivities(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	out, err := uc.Users.CommonActivities(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (uc *UserController) ResetData(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := uc.Users.ResetData(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all activity data removed"})
}

func (uc *UserController) DeleteAccount(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := uc.Users.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}

// ---------- Data portability ----------

func (uc *UserController) ExportCSV(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	data, err := uc.Portability.ExportCSV(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="fittrack-export.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (uc *UserController) EmailExport(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	data, err := uc.Portability.ExportCSV(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	profile, err := uc.Users.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	email, _ := profile["email"].(string)
	name, _ := profile["name"].(string)
	if err := utils.SendExportEmail(email, name, data); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sending export email failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "export sent to " + email})
}

// ImportCSV loads an export file back in, then reconciles records so
// imported history counts toward personal bests.
func (uc *UserController) ImportCSV(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv file is required"})
		return
	}
	defer file.Close()

	result, err := uc.Portability.ImportCSV(c.Request.Context(), userID, file)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := uc.Records.Reconcile(c.Request.Context(), userID); err != nil {
		uc.Log.Warn("record reconcile after import failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.JSON(http.StatusOK, result)
}
