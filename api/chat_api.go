package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"llmchat/chat"
)

// ChatHandler runs one synchronous chat turn and returns the full reply.
func (ctrl *Controller) ChatHandler(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.UserId = userId(c)

	reply, err := ctrl.service.Send(c.Request.Context(), req)
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// ChatStreamHandler runs one chat turn and relays it as Server-Sent Events:
// one init event, the reply chunks as they arrive, then a single done or
// error event. Each frame is a "data:" line carrying the JSON-encoded event.
//
// Errors raised before the first frame (unknown conversation, unsupported
// model) come back as a plain JSON error response instead of a stream.
func (ctrl *Controller) ChatStreamHandler(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.UserId = userId(c)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	var registeredId string
	defer func() {
		if registeredId != "" {
			ctrl.streams.remove(registeredId)
		}
	}()

	started := false
	sink := func(event chat.Event) error {
		if !started {
			c.Writer.Header().Set("Content-Type", "text/event-stream")
			c.Writer.Header().Set("Cache-Control", "no-cache")
			c.Writer.Header().Set("Connection", "keep-alive")
			c.Writer.WriteHeader(http.StatusOK)
			started = true
		}
		if init, ok := event.(chat.InitEvent); ok {
			registeredId = init.ConversationId
			ctrl.streams.add(registeredId, cancel)
		}

		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	if err := ctrl.service.StreamTurn(ctx, req, sink); err != nil {
		// StreamTurn only returns errors raised before any frame was
		// written, so a normal error response is still possible.
		ctrl.ErrorHandler(c, err)
	}
}

// StopStreamHandler interrupts the conversation's active stream, if any. The
// partial reply is discarded, matching a client-side disconnect.
func (ctrl *Controller) StopStreamHandler(c *gin.Context) {
	conversationId := c.Param("id")
	stopped := ctrl.streams.stop(conversationId)
	c.JSON(http.StatusOK, gin.H{"stopped": stopped})
}
