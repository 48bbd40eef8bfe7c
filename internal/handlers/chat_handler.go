package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/chat"
)

type ChatHandler struct {
	sessions *chat.Manager
}

func NewChatHandler(sessions *chat.Manager) *ChatHandler {
	return &ChatHandler{sessions: sessions}
}

func (h *ChatHandler) StartSession(c *gin.Context) {
	c.JSON(http.StatusCreated, h.sessions.Start())
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *ChatHandler) OpenSession(c *gin.Context) {
	h.setState(c, chat.Open)
}

func (h *ChatHandler) CloseSession(c *gin.Context) {
	h.setState(c, chat.Closed)
}

func (h *ChatHandler) setState(c *gin.Context, state chat.State) {
	s, err := h.sessions.SetState(c.Param("id"), state)
	if err != nil {
		chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

type messageRequest struct {
	Text string `json:"text"`
}

// SendMessage answers one user message
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := h.sessions.Send(c.Param("id"), req.Text)
	if err != nil {
		chatError(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func chatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, chat.ErrEmptyMessage):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, chat.ErrClosed):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "chat failed")
	}
}
