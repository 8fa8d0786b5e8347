package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/mptrsn/corpledger/internal/core/ports/services"
	"github.com/mptrsn/corpledger/internal/dto"
	"github.com/mptrsn/corpledger/internal/middleware"
)

// transactionHandler handles HTTP requests for posting and inspecting transactions.
type transactionHandler struct {
	ledgerService portssvc.LedgerSvc
}

func newTransactionHandler(ls portssvc.LedgerSvc) *transactionHandler {
	return &transactionHandler{ledgerService: ls}
}

// registerTransactionRoutes registers routes related to transactions and journal entries.
func registerTransactionRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc) {
	h := newTransactionHandler(ledgerService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/reverse", h.reverseTransaction)
		transactions.DELETE("/:id/entries", h.deleteEntries)
	}

	entries := rg.Group("/journal-entries")
	{
		entries.GET("", h.listEntriesByAccount)
		entries.GET("/:id", h.getEntry)
		// Bulk posting acts on the collection, not a single entry.
		entries.POST("", h.postEntries)
		entries.POST("/:id/reconcile", h.reconcileEntry)
		entries.POST("/:id/unreconcile", h.unreconcileEntry)
	}
}

func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorFromContext(c)
	logger.Info("Received request to post transaction",
		slog.String("currency_code", req.CurrencyCode), slog.Int("entries", len(req.Entries)))

	txn, err := h.ledgerService.CreateAndPersistTransaction(c.Request.Context(), req.ToTransactionData(), actorID)
	if err != nil {
		respondServiceError(c, logger, err, "post transaction")
		return
	}

	logger.Info("Transaction posted successfully",
		slog.String("transaction_id", txn.TransactionID), slog.String("number", txn.Number))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	limit := parseIntQuery(c, "limit", 50)
	offset := parseIntQuery(c, "offset", 0)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	txns, err := h.ledgerService.ListTransactions(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, logger, err, "list transactions")
		return
	}
	responses := make([]dto.TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = dto.ToTransactionResponse(&txns[i])
	}
	c.JSON(http.StatusOK, gin.H{"transactions": responses, "limit": limit, "offset": offset})
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	actorID, _ := middleware.GetActorFromContext(c)
	reversal, err := h.ledgerService.ReverseTransaction(c.Request.Context(), transactionID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "reverse transaction")
		return
	}

	logger.Info("Transaction reversed",
		slog.String("transaction_id", transactionID), slog.String("reversal_id", reversal.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(reversal))
}

func (h *transactionHandler) deleteEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	deleted, err := h.ledgerService.DeleteJournalEntriesByTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondServiceError(c, logger, err, "delete journal entries")
		return
	}

	logger.Info("Journal entries deleted",
		slog.String("transaction_id", transactionID), slog.Int64("deleted", deleted))
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *transactionHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, err := h.ledgerService.GetJournalEntry(c.Request.Context(), entryID)
	if err != nil {
		respondServiceError(c, logger, err, "retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *transactionHandler) listEntriesByAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Query("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "accountID query parameter is required"})
		return
	}

	entries, err := h.ledgerService.ListJournalEntriesByAccount(c.Request.Context(), accountID)
	if err != nil {
		respondServiceError(c, logger, err, "list journal entries")
		return
	}
	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, gin.H{"entries": responses})
}

func (h *transactionHandler) postEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorFromContext(c)
	updated, err := h.ledgerService.PostJournalEntries(c.Request.Context(), req.EntryIDs, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "post journal entries")
		return
	}
	responses := make([]dto.JournalEntryResponse, len(updated))
	for i := range updated {
		responses[i] = dto.ToJournalEntryResponse(&updated[i])
	}
	c.JSON(http.StatusOK, gin.H{"entries": responses})
}

func (h *transactionHandler) reconcileEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ReconcileEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, _ := middleware.GetActorFromContext(c)
	entry, err := h.ledgerService.ReconcileJournalEntry(c.Request.Context(), entryID, req.ReconciliationID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "reconcile journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

func (h *transactionHandler) unreconcileEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	actorID, _ := middleware.GetActorFromContext(c)
	entry, err := h.ledgerService.UnreconcileJournalEntry(c.Request.Context(), entryID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "unreconcile journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// parseIntQuery reads an integer query parameter, keeping the fallback on
// absence or a malformed value.
func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
