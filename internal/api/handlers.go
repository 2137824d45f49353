package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"orderbuilder/internal/models"
)

// CreateOrderRequest is the body of POST /api/orders.
type CreateOrderRequest struct {
	Ingredients []string `json:"ingredients"`
}

type ingredientsResponse struct {
	Success bool                 `json:"success"`
	Data    []models.CatalogItem `json:"data"`
}

type feedResponse struct {
	Success bool `json:"success"`
	models.FeedSnapshot
}

type orderNumber struct {
	Number int `json:"number"`
}

type createOrderResponse struct {
	Success bool        `json:"success"`
	Name    string      `json:"name"`
	Order   orderNumber `json:"order"`
}

type statusRequest struct {
	Status models.OrderStatus `json:"status"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "order builder API is running"})
}

func (s *Server) handleListIngredients(c *gin.Context) {
	items, err := s.catalog.List(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, ingredientsResponse{Success: true, Data: items})
}

func (s *Server) handleListOrders(c *gin.Context) {
	snapshot, err := s.orders.Recent(c.Request.Context(), s.historyLimit)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, feedResponse{Success: true, FeedSnapshot: snapshot})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		s.fail(c, http.StatusBadRequest, errors.New("order number must be a positive integer"))
		return
	}

	order, err := s.orders.FindByNumber(c.Request.Context(), number)
	if errors.Is(err, models.ErrOrderNotFound) {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": []models.FeedOrder{order.FeedOrder()}})
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	order, err := s.orders.Create(c.Request.Context(), req.Ingredients)
	switch {
	case errors.Is(err, models.ErrEmptyOrder), errors.Is(err, models.ErrUnknownIngredient):
		s.fail(c, http.StatusBadRequest, err)
		return
	case err != nil:
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	s.monitor.RecordOrder(order.Number, len(req.Ingredients))
	s.broadcastFeed(c.Request.Context())

	c.JSON(http.StatusOK, createOrderResponse{
		Success: true,
		Name:    order.Name,
		Order:   orderNumber{Number: order.Number},
	})
}

func (s *Server) handleUpdateStatus(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil || number <= 0 {
		s.fail(c, http.StatusBadRequest, errors.New("order number must be a positive integer"))
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	if !req.Status.Valid() {
		s.fail(c, http.StatusBadRequest, errors.New("unknown order status"))
		return
	}

	order, err := s.orders.UpdateStatus(c.Request.Context(), number, req.Status)
	if errors.Is(err, models.ErrOrderNotFound) {
		s.fail(c, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	s.broadcastFeed(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order.FeedOrder()})
}

func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}

func (s *Server) fail(c *gin.Context, code int, err error) {
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(code, gin.H{"success": false, "error": err.Error()})
}
