package handlers

import (
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gamecafe-pos/internal/models"
	"gamecafe-pos/internal/services"
	"gamecafe-pos/internal/store"
)

// POSHandler serves the POS API. Domain failures go out as JSON bodies
// with an "error" field; clients check that field before trusting a
// 2xx payload.
type POSHandler struct {
	store      store.Store
	feed       *OccupancyFeed
	invoiceDir string
}

func NewPOSHandler(st store.Store, feed *OccupancyFeed, invoiceDir string) *POSHandler {
	return &POSHandler{
		store:      st,
		feed:       feed,
		invoiceDir: invoiceDir,
	}
}

func (h *POSHandler) ListGames(c *gin.Context) {
	games, err := h.store.Games()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load games"})
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *POSHandler) ListStations(c *gin.Context) {
	stations, err := h.stationMap()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stations"})
		return
	}
	c.JSON(http.StatusOK, stations)
}

func (h *POSHandler) ListSessions(c *gin.Context) {
	sessions, err := h.store.Sessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sessions"})
		return
	}

	list := make([]models.Session, 0, len(sessions))
	for _, sess := range sessions {
		list = append(list, sess)
	}
	// stable order so repeated fetches render identically
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartTime.Equal(list[j].StartTime) {
			return list[i].StartTime.Before(list[j].StartTime)
		}
		return list[i].SessionID < list[j].SessionID
	})
	c.JSON(http.StatusOK, list)
}

// GetUser resolves a mobile number, creating the user with an empty
// wallet on first sight.
func (h *POSHandler) GetUser(c *gin.Context) {
	mobile := strings.TrimSpace(c.Param("mobile"))
	if mobile == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mobile number required"})
		return
	}

	user, err := h.getOrCreateUser(mobile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *POSHandler) StartSession(c *gin.Context) {
	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	req.Mobile = strings.TrimSpace(req.Mobile)
	req.Station = strings.ToUpper(strings.TrimSpace(req.Station))
	req.Game = strings.TrimSpace(req.Game)
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid fields"})
		return
	}

	if _, err := h.getOrCreateUser(req.Mobile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	sessions, err := h.store.Sessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load sessions"})
		return
	}
	for _, sess := range sessions {
		if sess.Station == req.Station {
			c.JSON(http.StatusConflict, gin.H{"error": "Station " + req.Station + " is occupied"})
			return
		}
	}

	games, err := h.store.Games()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load games"})
		return
	}
	game := findGame(games, req.Game)
	if game == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game"})
		return
	}
	if !game.RequiresControllers {
		req.Controllers = 0
	}

	sess := models.Session{
		SessionID:   models.GenerateSessionID(),
		Mobile:      req.Mobile,
		Station:     req.Station,
		Game:        req.Game,
		Controllers: req.Controllers,
		StartTime:   time.Now().UTC(),
	}
	if err := h.store.SaveSession(sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}

	h.broadcastStations()
	c.JSON(http.StatusOK, gin.H{"session_id": sess.SessionID, "status": "started"})
}

func (h *POSHandler) EndSession(c *gin.Context) {
	var req struct {
		SessionID string  `json:"session_id"`
		FoodCost  float64 `json:"food_cost"`
		UseWallet *bool   `json:"use_wallet"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	useWallet := true
	if req.UseWallet != nil {
		useWallet = *req.UseWallet
	}
	if req.FoodCost < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Food cost must not be negative"})
		return
	}

	sess, err := h.store.DeleteSession(req.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
		return
	}
	if sess == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return
	}

	games, err := h.store.Games()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load games"})
		return
	}

	user, err := h.getOrCreateUser(sess.Mobile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}

	end := time.Now().UTC()
	invoice := services.ComputeInvoice(*sess, findGame(games, sess.Game), user.Wallet, req.FoodCost, useWallet, end)

	user.Wallet = invoice.RemainingWallet
	if err := h.store.SaveUser(*user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wallet"})
		return
	}

	invoiceID := models.InvoiceID(sess.SessionID)

	// journals and receipt are best effort; the invoice is already final
	if err := h.store.AppendPayment(models.Payment{
		Mobile: invoice.Mobile,
		Amount: invoice.TotalDue - invoice.WalletUsed,
		Date:   invoice.Date,
	}); err != nil {
		log.Printf("failed to record payment: %v", err)
	}
	if err := h.store.AppendInvoiceRecord(models.InvoiceRecord{
		InvoiceID:       invoiceID,
		Date:            invoice.Date,
		Mobile:          invoice.Mobile,
		AmountDue:       invoice.TotalDue,
		Game:            invoice.Game,
		Station:         invoice.Station,
		Controllers:     invoice.Controllers,
		BaseCost:        invoice.BaseCost,
		FoodCost:        invoice.FoodCost,
		WalletUsed:      invoice.WalletUsed,
		LoyaltyEarned:   invoice.LoyaltyEarned,
		RemainingWallet: invoice.RemainingWallet,
	}); err != nil {
		log.Printf("failed to record invoice: %v", err)
	}

	resp := gin.H{"invoice": invoice}
	if receiptURL, err := services.WriteReceipt(h.invoiceDir, invoiceID, invoice); err != nil {
		log.Printf("failed to write receipt %s: %v", invoiceID, err)
	} else {
		resp["pdf"] = receiptURL
	}

	h.broadcastStations()
	c.JSON(http.StatusOK, resp)
}

func (h *POSHandler) UpdatePrice(c *gin.Context) {
	var req models.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.Name == "" || !models.ValidPrice(req.PricePerHour) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name or new price"})
		return
	}

	games, err := h.store.Games()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load games"})
		return
	}

	found := false
	for i := range games {
		if games[i].Name == req.Name {
			games[i].PricePerHour = req.PricePerHour
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	if err := h.store.SaveGames(games); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save games"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "games": games})
}

// stationMap derives occupancy for the fixed station alphabet from the
// active sessions.
func (h *POSHandler) stationMap() (map[string]models.StationStatus, error) {
	sessions, err := h.store.Sessions()
	if err != nil {
		return nil, err
	}

	stations := make(map[string]models.StationStatus, len(models.StationLetters))
	for _, letter := range models.StationLetters {
		stations[letter] = models.StationStatus{}
	}
	for id, sess := range sessions {
		stations[sess.Station] = models.StationStatus{Occupied: true, SessionID: id}
	}
	return stations, nil
}

func (h *POSHandler) getOrCreateUser(mobile string) (*models.User, error) {
	user, err := h.store.User(mobile)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &models.User{Mobile: mobile, Wallet: 0}
		if err := h.store.SaveUser(*user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (h *POSHandler) broadcastStations() {
	if h.feed == nil {
		return
	}
	stations, err := h.stationMap()
	if err != nil {
		log.Printf("failed to derive stations for broadcast: %v", err)
		return
	}
	h.feed.BroadcastStations(stations)
}

func findGame(games []models.Game, name string) *models.Game {
	for i := range games {
		if games[i].Name == name {
			return &games[i]
		}
	}
	return nil
}
