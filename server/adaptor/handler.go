package adaptor

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ponyo877/roomchat/server/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createRoomRequest struct {
	Name   string `json:"name"`
	UserID int64  `json:"user_id" binding:"required"`
}

type joinRoomRequest struct {
	UserID int64 `json:"user_id" binding:"required"`
	RoomID int64 `json:"room_id" binding:"required"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Status   string `json:"status"`
	LastSeen string `json:"last_seen"`
}

type roomResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Status:   string(u.Status),
		LastSeen: u.LastSeen.UTC().Format(time.RFC3339),
	}
}

func toRoomResponses(rooms []domain.Room) []roomResponse {
	res := make([]roomResponse, 0, len(rooms))
	for _, r := range rooms {
		res = append(res, roomResponse{ID: r.ID, Name: r.Name})
	}
	return res
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": "fail", "message": "invalid request body"})
		return false
	}
	return true
}

func (a *Adaptor) signUp(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	user, err := a.uc.SignUp(ctx, req.Username, req.Password)
	if err != nil {
		writeError(c, err, "Username already exists")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"user": toUserResponse(user)},
	})
}

func (a *Adaptor) signIn(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	user, err := a.uc.SignIn(ctx, req.Username, req.Password)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
}

func (a *Adaptor) signOut(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	if err := a.uc.SignOut(ctx, id); err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (a *Adaptor) getUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	user, rooms, err := a.uc.GetUser(ctx, id)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"user":       toUserResponse(user),
			"chat_rooms": toRoomResponses(rooms),
		},
	})
}

func (a *Adaptor) listRooms(c *gin.Context) {
	ctx, cancel := timeout(c)
	defer cancel()
	rooms, err := a.uc.ListRooms(ctx)
	if err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, toRoomResponses(rooms))
}

func (a *Adaptor) createRoom(c *gin.Context) {
	var req createRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	room, err := a.uc.CreateRoom(ctx, req.Name, req.UserID)
	if err != nil {
		writeError(c, err, "Chat room already exists")
		return
	}
	c.JSON(http.StatusOK, roomResponse{ID: room.ID, Name: room.Name})
}

func (a *Adaptor) joinRoom(c *gin.Context) {
	var req joinRoomRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	if err := a.uc.JoinRoom(ctx, req.UserID, req.RoomID); err != nil {
		writeError(c, err, "Already a member of this chat room")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Joined chat room successfully"})
}

func (a *Adaptor) deleteRoom(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := timeout(c)
	defer cancel()
	if err := a.uc.DeleteRoom(ctx, id); err != nil {
		writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Chat room deleted successfully"})
}
