package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/okhramov/stockbook/internal/api/dto"
	"github.com/okhramov/stockbook/internal/core"
	"github.com/okhramov/stockbook/internal/domain"
	"github.com/okhramov/stockbook/internal/middleware"
)

type HTTPServer struct {
	Eng       *core.Engine
	RateLimit time.Duration // zero disables the limiter
}

func NewHTTPServer(eng *core.Engine) *HTTPServer {
	return &HTTPServer{Eng: eng}
}

func (s *HTTPServer) Router() *gin.Engine {
	r := gin.Default()

	if s.RateLimit > 0 {
		rl := middleware.NewRateLimiter(s.RateLimit)
		r.Use(rl.Middleware())
	}

	r.POST("/orders", s.submitOrder)
	r.GET("/orderbook", s.getOrderbook)
	r.GET("/trades", s.getTrades)
	r.GET("/trades/archive", s.getArchivedTrades)
	r.POST("/snapshot", s.snapshot)
	r.POST("/restore", s.restore)

	return r
}

func (s *HTTPServer) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *HTTPServer) submitOrder(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := s.Eng.SubmitOrder(c.Request.Context(), req.Symbol, domain.Side(req.Side), req.Price, req.Quantity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.SubmitOrderResponse{
		OrderID:   res.OrderID,
		Trades:    convertTrades(res.Trades),
		Remaining: res.Remaining,
	})
}

func (s *HTTPServer) getOrderbook(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol required"})
		return
	}
	depth, err := s.Eng.BookDepth(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetOrderbookResponse{
		Symbol:    depth.Symbol,
		Bids:      convertOrders(depth.Bids),
		Asks:      convertOrders(depth.Asks),
		Timestamp: depth.Timestamp,
	})
}

func (s *HTTPServer) getTrades(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol required"})
		return
	}
	trades, err := s.Eng.TradeHistory(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetTradesResponse{Trades: convertTrades(trades)})
}

func (s *HTTPServer) getArchivedTrades(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol required"})
		return
	}
	trades, err := s.Eng.ArchivedTrades(c.Request.Context(), symbol)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	out := make([]domain.Trade, len(trades))
	for i, t := range trades {
		out[i] = *t
	}
	c.JSON(http.StatusOK, dto.GetTradesResponse{Trades: convertTrades(out)})
}

func (s *HTTPServer) snapshot(c *gin.Context) {
	var req dto.SnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var err error
	if req.Symbol == "" {
		err = s.Eng.SnapshotAll(c.Request.Context())
	} else {
		err = s.Eng.Snapshot(c.Request.Context(), req.Symbol)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.SnapshotResponse{Saved: true})
}

func (s *HTTPServer) restore(c *gin.Context) {
	var req dto.RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.Eng.Restore(c.Request.Context(), req.Symbol); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.RestoreResponse{Restored: true})
}

func convertOrders(orders []domain.Order) []dto.Order {
	res := make([]dto.Order, len(orders))
	for i, o := range orders {
		res[i] = dto.Order{
			ID:        o.ID,
			Symbol:    o.Symbol,
			Side:      dto.Side(o.Side),
			Price:     o.Price,
			Quantity:  o.Quantity,
			CreatedAt: o.CreatedAt,
		}
	}
	return res
}

func convertTrades(trades []domain.Trade) []dto.Trade {
	res := make([]dto.Trade, len(trades))
	for i, t := range trades {
		res[i] = dto.Trade{
			ID:         t.ID,
			Symbol:     t.Symbol,
			Price:      t.Price,
			Quantity:   t.Quantity,
			MakerOrder: t.MakerOrder,
			TakerOrder: t.TakerOrder,
			ExecutedAt: t.ExecutedAt,
			Display:    t.String(),
		}
	}
	return res
}
