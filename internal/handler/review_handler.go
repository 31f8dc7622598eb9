package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-api/internal/middleware"
	"storefront-api/internal/model"
	"storefront-api/pkg/logger"
	"storefront-api/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultReviewPage  = 1
	defaultReviewLimit = 10
)

// ReviewHandler serves review CRUD. All mutations run behind BearerAuth
// and act as the token's subject; a client-supplied user id is never
// trusted.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler creates a ReviewHandler backed by the given database
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

// ReviewRequest defines the body for review creation/update requests.
// Rating is a pointer so a missing field is distinguishable from 0.
type ReviewRequest struct {
	Rating  *int   `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewEntry is one review joined with its reviewer's profile fields
type ReviewEntry struct {
	ID        uint      `json:"id"`
	ProductID uint      `json:"product_id"`
	UserID    string    `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
}

// Pagination describes one page of a paginated listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// ListReviews returns one page of a product's reviews, newest first
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	log := logger.FromContext(c)

	productID, err := parsePositiveID(c.Param("id"))
	if err != nil {
		log.Warn("Invalid product ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product ID format",
		})
	}

	page, limit := parsePagination(c.QueryParam("page"), c.QueryParam("limit"))
	offset := (page - 1) * limit

	var total int64
	if err := h.db.Model(&model.Review{}).Where("product_id = ?", productID).Count(&total).Error; err != nil {
		log.Error("Failed to count reviews",
			zap.Uint("product_id", productID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to fetch reviews",
		})
	}

	reviews := []ReviewEntry{}
	result := h.db.Table("reviews AS r").
		Select("r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at, r.updated_at, u.name AS user_name, COALESCE(u.email, '') AS user_email").
		Joins("JOIN users u ON r.user_id = u.id").
		Where("r.product_id = ?", productID).
		Order("r.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&reviews)
	if result.Error != nil {
		log.Error("Failed to fetch reviews",
			zap.Uint("product_id", productID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to fetch reviews",
		})
	}

	log.Info("Reviews retrieved",
		zap.Uint("product_id", productID),
		zap.Int("count", len(reviews)),
		zap.Int64("total", total))
	return c.JSON(http.StatusOK, echo.Map{
		"reviews": reviews,
		"pagination": Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages(total, limit),
		},
	})
}

// CreateReview records the authenticated caller's review of a product.
// The caller's User row is upserted first so reviews always join to a
// current name/email.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	log := logger.FromContext(c)

	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		log.Warn("Missing identity in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization header missing"})
	}

	productID, err := parsePositiveID(c.Param("id"))
	if err != nil {
		log.Warn("Invalid product ID", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid product ID format",
		})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.Rating == nil {
		log.Warn("Missing rating", zap.Uint("product_id", productID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Rating is required"})
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		log.Warn("Rating out of range",
			zap.Uint("product_id", productID),
			zap.Int("rating", *req.Rating))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Rating must be between 1 and 5"})
	}

	// Insert the user on first write, refresh profile fields on repeats.
	// An absent email claim stays NULL so it never trips the unique index.
	user := model.User{
		ID:   identity.Subject,
		Name: identity.Name,
	}
	if identity.Email != "" {
		email := identity.Email
		user.Email = &email
	}
	upsert := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email"}),
	}).Create(&user)
	if upsert.Error != nil {
		log.Error("Failed to upsert user",
			zap.String("user_id", identity.Subject),
			zap.Error(upsert.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Failed to submit review",
			"details": upsert.Error.Error(),
		})
	}

	// One review per (user, product)
	var count int64
	if err := h.db.Model(&model.Review{}).
		Where("user_id = ? AND product_id = ?", identity.Subject, productID).
		Count(&count).Error; err != nil {
		log.Error("Failed to check for existing review", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Failed to submit review",
			"details": err.Error(),
		})
	}
	if count > 0 {
		log.Warn("Duplicate review rejected",
			zap.String("user_id", identity.Subject),
			zap.Uint("product_id", productID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "You have already reviewed this product"})
	}

	review := model.Review{
		ProductID: productID,
		UserID:    identity.Subject,
		Rating:    *req.Rating,
		Comment:   req.Comment,
	}
	if err := h.db.Create(&review).Error; err != nil {
		log.Error("Failed to create review",
			zap.String("user_id", identity.Subject),
			zap.Uint("product_id", productID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":   "Failed to submit review",
			"details": err.Error(),
		})
	}

	prometheus.ReviewOperationsCounter.WithLabelValues("create").Inc()
	log.Info("Review created",
		zap.Uint("review_id", review.ID),
		zap.String("user_id", identity.Subject),
		zap.Uint("product_id", productID),
		zap.Int("rating", review.Rating))
	return c.JSON(http.StatusCreated, review)
}

// UpdateReview changes the rating/comment of a review owned by the caller
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	log := logger.FromContext(c)

	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		log.Warn("Missing identity in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization header missing"})
	}

	reviewID, err := parsePositiveID(c.Param("reviewId"))
	if err != nil {
		log.Warn("Invalid review ID", zap.String("review_id", c.Param("reviewId")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid review ID format",
		})
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	if req.Rating == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Rating is required"})
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Rating must be between 1 and 5"})
	}

	review, errResp := h.loadOwnedReview(c, reviewID, identity.Subject, "update")
	if errResp != nil {
		return errResp(c)
	}

	updates := map[string]interface{}{
		"rating":     *req.Rating,
		"comment":    req.Comment,
		"updated_at": time.Now(),
	}
	if err := h.db.Model(review).Updates(updates).Error; err != nil {
		log.Error("Failed to update review",
			zap.Uint("review_id", reviewID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to update review",
		})
	}

	prometheus.ReviewOperationsCounter.WithLabelValues("update").Inc()
	log.Info("Review updated",
		zap.Uint("review_id", reviewID),
		zap.String("user_id", identity.Subject),
		zap.Int("rating", *req.Rating))
	return c.JSON(http.StatusOK, review)
}

// DeleteReview removes a review owned by the caller
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	log := logger.FromContext(c)

	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		log.Warn("Missing identity in context")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authorization header missing"})
	}

	reviewID, err := parsePositiveID(c.Param("reviewId"))
	if err != nil {
		log.Warn("Invalid review ID", zap.String("review_id", c.Param("reviewId")))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid review ID format",
		})
	}

	review, errResp := h.loadOwnedReview(c, reviewID, identity.Subject, "delete")
	if errResp != nil {
		return errResp(c)
	}

	if err := h.db.Delete(review).Error; err != nil {
		log.Error("Failed to delete review",
			zap.Uint("review_id", reviewID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to delete review",
		})
	}

	prometheus.ReviewOperationsCounter.WithLabelValues("delete").Inc()
	log.Info("Review deleted",
		zap.Uint("review_id", reviewID),
		zap.String("user_id", identity.Subject))
	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted successfully"})
}

// loadOwnedReview fetches a review and checks the caller owns it. On
// failure it returns a response func carrying the 404/403/500 body.
func (h *ReviewHandler) loadOwnedReview(c echo.Context, reviewID uint, subject, action string) (*model.Review, func(echo.Context) error) {
	log := logger.FromContext(c)

	var review model.Review
	result := h.db.First(&review, reviewID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Warn("Review not found", zap.Uint("review_id", reviewID))
			return nil, func(c echo.Context) error {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "Review not found"})
			}
		}
		log.Error("Failed to fetch review",
			zap.Uint("review_id", reviewID),
			zap.Error(result.Error))
		return nil, func(c echo.Context) error {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch review"})
		}
	}

	if review.UserID != subject {
		log.Warn("Review ownership mismatch",
			zap.Uint("review_id", reviewID),
			zap.String("owner", review.UserID),
			zap.String("caller", subject))
		message := "You can only " + action + " your own reviews"
		return nil, func(c echo.Context) error {
			return c.JSON(http.StatusForbidden, echo.Map{"error": message})
		}
	}

	return &review, nil
}

// parsePagination resolves the page/limit query parameters, falling back
// to page 1 and limit 10 for missing or nonsensical values
func parsePagination(pageParam, limitParam string) (int, int) {
	page := defaultReviewPage
	if v, err := strconv.Atoi(pageParam); err == nil && v > 0 {
		page = v
	}
	limit := defaultReviewLimit
	if v, err := strconv.Atoi(limitParam); err == nil && v > 0 {
		limit = v
	}
	return page, limit
}

// totalPages computes ceil(total/limit)
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
