package server

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/sleepstars/bayportbot/internal/completion"
	"github.com/sleepstars/bayportbot/internal/logger"
	"github.com/sleepstars/bayportbot/internal/models"
)

// FallbackText is shown on the chat form when the completion API fails
const FallbackText = "There was an error contacting the AI. Please try again later."

const (
	settlementBooked  = "Settlement successfully booked."
	callbackReceived  = "Callback request received."
	missingFieldsText = "Please fill in all required fields."
	docsNotice        = "<h3>Developer access only</h3><p>To access Swagger UI, add <code>?admin=true</code> to the URL.</p>"
)

var routeDescriptions = map[string]string{
	"/":                    "Web page with chat, callback and settlement forms",
	"/chat-ui":             "Form: ask the assistant a question",
	"/request-callback-ui": "Form: request a phone callback",
	"/book-settlement-ui":  "Form: book a loan settlement",
	"/chat":                "JSON: {message, userId?} -> {response}",
	"/download-statement":  "Query userId -> confirmation message",
	"/book-settlement":     "JSON: {account, date} -> confirmation with details",
	"/request-callback":    "JSON: {name, phone} -> confirmation with details",
	"/docs":                "Developer notice; ?admin=true redirects to this page",
	"/health":              "Liveness probe",
	"/metrics":             "Prometheus metrics",
}

type pageData struct {
	Message string
	Error   string
}

type routeDoc struct {
	Method      string
	Path        string
	Description string
}

// Handlers implements the HTTP routes
type Handlers struct {
	proxy    completion.Completer
	docsPath string
	routes   func() gin.RoutesInfo
	logger   *logger.Logger
}

// NewHandlers creates route handlers. routes lists the registered routes
// for the reference page.
func NewHandlers(proxy completion.Completer, docsPath string, routes func() gin.RoutesInfo) *Handlers {
	return &Handlers{
		proxy:    proxy,
		docsPath: docsPath,
		routes:   routes,
		logger:   logger.GetLogger().WithComponent("handlers"),
	}
}

func (h *Handlers) page(c *gin.Context, status int, data pageData) {
	c.HTML(status, "index.html", data)
}

// Index renders the forms page with an optional status banner
func (h *Handlers) Index(c *gin.Context) {
	h.page(c, http.StatusOK, pageData{Message: c.Query("message")})
}

// ChatUI answers the chat form inline. Upstream failures become FallbackText.
func (h *Handlers) ChatUI(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.page(c, http.StatusBadRequest, pageData{Error: missingFieldsText})
		return
	}

	text, err := h.proxy.Complete(c.Request.Context(), req.Message)
	if err != nil {
		h.logger.WithError(err).Warn("Chat form completion failed, showing fallback")
		h.page(c, http.StatusOK, pageData{Message: FallbackText})
		return
	}
	h.page(c, http.StatusOK, pageData{Message: text})
}

// CallbackUI confirms a callback request submitted from the form
func (h *Handlers) CallbackUI(c *gin.Context) {
	var req models.CallbackRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.page(c, http.StatusBadRequest, pageData{Error: missingFieldsText})
		return
	}

	msg := fmt.Sprintf("Callback request submitted for %s at %s.", req.Name, req.Phone)
	h.page(c, http.StatusOK, pageData{Message: msg})
}

// SettlementUI confirms a settlement booking submitted from the form
func (h *Handlers) SettlementUI(c *gin.Context) {
	var req models.SettlementRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.page(c, http.StatusBadRequest, pageData{Error: missingFieldsText})
		return
	}

	msg := fmt.Sprintf("Settlement for account %s booked for %s.", req.Account, req.Date)
	h.page(c, http.StatusOK, pageData{Message: msg})
}

// Chat is the JSON chat endpoint. Upstream failures surface as 502.
func (h *Handlers) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	text, err := h.proxy.Complete(c.Request.Context(), req.Message)
	if err != nil {
		c.Error(err)
		h.logger.WithError(err).Error("Chat completion failed for user %q", req.UserID)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "upstream completion failed"})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Response: text})
}

// DownloadStatement acknowledges a statement request
func (h *Handlers) DownloadStatement(c *gin.Context) {
	var q models.StatementQuery
	if err := c.ShouldBindQuery(&q); err != nil || q.ID() == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userId is required"})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("Statement for user %s downloaded successfully.", q.ID()),
	})
}

// BookSettlement echoes a settlement booking; nothing is stored
func (h *Handlers) BookSettlement(c *gin.Context) {
	var req models.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.BookingResponse{Message: settlementBooked, Details: req})
}

// RequestCallback echoes a callback request; nothing is stored
func (h *Handlers) RequestCallback(c *gin.Context) {
	var req models.CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.BookingResponse{Message: callbackReceived, Details: req})
}

// Docs gates the reference page behind ?admin=true
func (h *Handlers) Docs(c *gin.Context) {
	if c.Query("admin") == "true" {
		c.Redirect(http.StatusTemporaryRedirect, h.docsPath)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsNotice))
}

// Reference lists the registered routes
func (h *Handlers) Reference(c *gin.Context) {
	var docs []routeDoc
	for _, r := range h.routes() {
		if r.Method == http.MethodHead || r.Method == http.MethodOptions {
			continue
		}
		desc := routeDescriptions[r.Path]
		if r.Path == h.docsPath {
			desc = "API reference (this page)"
		}
		docs = append(docs, routeDoc{Method: r.Method, Path: r.Path, Description: desc})
	}
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Path != docs[j].Path {
			return docs[i].Path < docs[j].Path
		}
		return docs[i].Method < docs[j].Method
	})

	c.HTML(http.StatusOK, "docs.html", gin.H{"Routes": docs})
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
