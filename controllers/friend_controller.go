package controllers

import (
	"net/http"

	"fittrack/services"

	"github.com/gin-gonic/gin"
)

type FriendController struct {
	Friends     *services.FriendService
	Leaderboard *services.LeaderboardService
}

func NewFriendController(friends *services.FriendService, leaderboard *services.LeaderboardService) *FriendController {
	return &FriendController{Friends: friends, Leaderboard: leaderboard}
}

func (fc *FriendController) Search(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	results, err := fc.Friends.Search(c.Request.Context(), userID, c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (fc *FriendController) SendRequest(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	recipientID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := fc.Friends.SendRequest(c.Request.Context(), userID, recipientID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "friend request sent"})
}

func (fc *FriendController) AcceptRequest(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	senderID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	if err := fc.Friends.AcceptRequest(c.Request.Context(), userID, senderID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "friend request accepted"})
}

func (fc *FriendController) Overview(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	out, err := fc.Friends.Overview(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (fc *FriendController) Suggestions(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	out, err := fc.Friends.Suggestions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (fc *FriendController) Feed(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	out, err := fc.Friends.Feed(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (fc *FriendController) Profile(c *gin.Context) {
	if _, ok := userIDFromCtx(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	profileID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	out, err := fc.Friends.Profile(c.Request.Context(), profileID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GetLeaderboard scores the user and their friends over the trailing
// window, highest fit score first.
func (fc *FriendController) GetLeaderboard(c *gin.Context) {
	userID, ok := userIDFromCtx(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	out, err := fc.Leaderboard.Compute(c.Request.Context(), userID, windowDaysQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
