package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/service"
)

// MemberPostHandler is the author side of the posting workflow.
type MemberPostHandler struct {
	Posting *service.PostingService
}

func (h *MemberPostHandler) RegisterRoutes(member *gin.RouterGroup) {
	member.POST("/member/posts", h.Create)
	member.GET("/member/posts", h.List)
	member.GET("/member/posts/:id", h.Get)
	member.PUT("/member/posts/:id", h.Update)
	member.DELETE("/member/posts/:id", h.Delete)
}

// POST /api/member/posts
func (h *MemberPostHandler) Create(c *gin.Context) {
	var draft model.PostDraft
	if !bindJSON(c, &draft) {
		return
	}
	post, err := h.Posting.Submit(c.Request.Context(), mustUser(c), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// GET /api/member/posts?status=&skip=&limit=
func (h *MemberPostHandler) List(c *gin.Context) {
	p, err := page(c, maxLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	status := model.PostStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		respondError(c, &service.ValidationError{Field: "status", Reason: "unknown post status"})
		return
	}
	posts, err := h.Posting.ListOwn(c.Request.Context(), mustUser(c), status, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GET /api/member/posts/:id
func (h *MemberPostHandler) Get(c *gin.Context) {
	post, err := h.Posting.GetOwn(c.Request.Context(), mustUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// PUT /api/member/posts/:id
func (h *MemberPostHandler) Update(c *gin.Context) {
	var draft model.PostDraft
	if !bindJSON(c, &draft) {
		return
	}
	post, err := h.Posting.UpdateOwn(c.Request.Context(), mustUser(c), c.Param("id"), draft)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DELETE /api/member/posts/:id
func (h *MemberPostHandler) Delete(c *gin.Context) {
	if err := h.Posting.DeleteOwn(c.Request.Context(), mustUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
