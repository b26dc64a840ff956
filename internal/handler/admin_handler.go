package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler groups moderation, ledger and member management.
type AdminHandler struct {
	Moderation *service.ModerationService
	Wallet     *service.WalletService
	Members    *service.MemberService
	Stats      *service.StatsService
}

func (h *AdminHandler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/admin/posts/pending", h.PendingPosts)
	admin.GET("/admin/posts", h.Posts)
	admin.GET("/admin/posts/:id", h.Post)
	admin.DELETE("/admin/posts/:id", h.DeletePost)
	admin.PUT("/admin/posts/:id/approve", h.Decide)

	admin.GET("/admin/transactions", h.Transactions)
	admin.GET("/admin/transactions/export", h.ExportTransactions)
	admin.PUT("/admin/transactions/:id/approve", h.ApproveDeposit)
	admin.PUT("/admin/transactions/:id/reject", h.RejectDeposit)

	admin.GET("/admin/members", h.ListMembers)
	admin.GET("/admin/members/:id", h.Member)
	admin.PUT("/admin/members/:id", h.UpdateMember)
	admin.PUT("/admin/members/:id/status", h.SetMemberStatus)

	admin.GET("/admin/dashboard/stats", h.Dashboard)
}

func postFilters(c *gin.Context) (model.PostStatus, model.PostType, error) {
	status := model.PostStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return "", "", &service.ValidationError{Field: "status", Reason: "unknown post status"}
	}
	postType := model.PostType(c.Query("post_type"))
	if postType != "" && !postType.Valid() {
		return "", "", &service.ValidationError{Field: "post_type", Reason: "unknown post type"}
	}
	return status, postType, nil
}

// GET /api/admin/posts/pending?post_type=&skip=&limit=
func (h *AdminHandler) PendingPosts(c *gin.Context) {
	p, errPage := page(c, maxLimit)
	_, postType, errFilter := postFilters(c)
	if err := firstErr(errPage, errFilter); err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Moderation.ListPending(c.Request.Context(), postType, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/posts?status=&post_type=&skip=&limit=
func (h *AdminHandler) Posts(c *gin.Context) {
	p, errPage := page(c, maxLimit)
	status, postType, errFilter := postFilters(c)
	if err := firstErr(errPage, errFilter); err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Moderation.ListAll(c.Request.Context(), status, postType, p)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) Post(c *gin.Context) {
	post, err := h.Moderation.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	if err := h.Moderation.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// PUT /api/admin/posts/:id/approve with {status, admin_notes, rejection_reason, featured}
func (h *AdminHandler) Decide(c *gin.Context) {
	var d service.Decision
	if !bindJSON(c, &d) {
		return
	}
	post, changed, err := h.Moderation.Decide(c.Request.Context(), mustUser(c), c.Param("id"), d)
	if err != nil {
		respondError(c, err)
		return
	}
	msg := fmt.Sprintf("Post %s successfully", post.Status)
	if !changed {
		msg = fmt.Sprintf("Post already %s", post.Status)
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "changed": changed, "post": post})
}

func transactionFilter(c *gin.Context) (repository.TransactionFilter, error) {
	p, err := page(c, maxLimit)
	if err != nil {
		return repository.TransactionFilter{}, err
	}
	f := repository.TransactionFilter{
		UserID: c.Query("user_id"),
		Type:   model.TransactionType(c.Query("transaction_type")),
		Status: model.TransactionStatus(c.Query("status")),
		Page:   p,
	}
	if f.Type != "" && !f.Type.Valid() {
		return f, &service.ValidationError{Field: "transaction_type", Reason: "unknown transaction type"}
	}
	if f.Status != "" && !f.Status.Valid() {
		return f, &service.ValidationError{Field: "status", Reason: "unknown transaction status"}
	}
	return f, nil
}

// GET /api/admin/transactions?user_id=&transaction_type=&status=&skip=&limit=
func (h *AdminHandler) Transactions(c *gin.Context) {
	f, err := transactionFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Wallet.ListAll(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/transactions/export answers with an .xlsx attachment.
func (h *AdminHandler) ExportTransactions(c *gin.Context) {
	f, err := transactionFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.Wallet.Export(c.Request.Context(), f, &buf); err != nil {
		respondError(c, err)
		return
	}
	name := fmt.Sprintf("transactions-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

type adminNotesRequest struct {
	AdminNotes string `json:"admin_notes"`
}

// notes reads an optional {admin_notes} body; an empty body is fine.
func notes(c *gin.Context) (string, bool) {
	if c.Request.ContentLength == 0 {
		return "", true
	}
	var req adminNotesRequest
	if !bindJSON(c, &req) {
		return "", false
	}
	return req.AdminNotes, true
}

// PUT /api/admin/transactions/:id/approve
func (h *AdminHandler) ApproveDeposit(c *gin.Context) {
	n, ok := notes(c)
	if !ok {
		return
	}
	t, err := h.Wallet.ApproveDeposit(c.Request.Context(), mustUser(c), c.Param("id"), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deposit approved successfully", "transaction": t})
}

// PUT /api/admin/transactions/:id/reject
func (h *AdminHandler) RejectDeposit(c *gin.Context) {
	n, ok := notes(c)
	if !ok {
		return
	}
	t, err := h.Wallet.RejectDeposit(c.Request.Context(), mustUser(c), c.Param("id"), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deposit rejected", "transaction": t})
}

// GET /api/admin/members?role=&status=&skip=&limit=
func (h *AdminHandler) ListMembers(c *gin.Context) {
	p, err := page(c, maxLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	f := repository.UserFilter{
		Role:   model.Role(c.Query("role")),
		Status: model.UserStatus(c.Query("status")),
		Page:   p,
	}
	list, err := h.Members.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AdminHandler) Member(c *gin.Context) {
	u, err := h.Members.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AdminHandler) UpdateMember(c *gin.Context) {
	var req service.MemberUpdate
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Members.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

type memberStatusRequest struct {
	Status model.UserStatus `json:"status" binding:"required"`
}

func (h *AdminHandler) SetMemberStatus(c *gin.Context) {
	var req memberStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Members.SetStatus(c.Request.Context(), mustUser(c), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member status updated", "user": u})
}

// GET /api/admin/dashboard/stats
func (h *AdminHandler) Dashboard(c *gin.Context) {
	st, err := h.Stats.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
