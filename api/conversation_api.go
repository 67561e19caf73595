package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetConversationsHandler lists the user's conversations, most recently
// updated first. Pages are 1-based; pageSize defaults to 20.
func (ctrl *Controller) GetConversationsHandler(c *gin.Context) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page number"})
		return
	}
	pageSize, err := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)
	if err != nil || pageSize < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page size"})
		return
	}

	conversations, total, err := ctrl.storage.GetConversations(c.Request.Context(), userId(c), page, pageSize)
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversations": conversations,
		"total":         total,
	})
}

// GetConversationHandler returns one conversation along with its messages in
// chronological order.
func (ctrl *Controller) GetConversationHandler(c *gin.Context) {
	ctx := c.Request.Context()

	conversation, err := ctrl.storage.GetConversation(ctx, userId(c), c.Param("id"))
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	messages, err := ctrl.storage.GetMessages(ctx, conversation.Id)
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation": conversation,
		"messages":     messages,
	})
}

type renameConversationRequest struct {
	Title string `json:"title" binding:"required"`
}

// RenameConversationHandler gives a conversation an explicit title, replacing
// the derived one.
func (ctrl *Controller) RenameConversationHandler(c *gin.Context) {
	var req renameConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	conversation, err := ctrl.storage.GetConversation(ctx, userId(c), c.Param("id"))
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	conversation.Title = req.Title
	if err := ctrl.storage.PersistConversation(ctx, conversation); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversation": conversation})
}

// DeleteConversationHandler removes a conversation and all its messages.
func (ctrl *Controller) DeleteConversationHandler(c *gin.Context) {
	if err := ctrl.storage.DeleteConversation(c.Request.Context(), userId(c), c.Param("id")); err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted successfully"})
}

// GetUsageSummaryHandler aggregates the user's token and cost totals per
// model.
func (ctrl *Controller) GetUsageSummaryHandler(c *gin.Context) {
	summaries, err := ctrl.storage.GetUsageSummary(c.Request.Context(), userId(c))
	if err != nil {
		ctrl.ErrorHandler(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": summaries})
}
