package handler

import (
	"net/http"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/pkg/auth"
	md "github.com/Astemirdum/library-circulation/pkg/middleware"
	"github.com/Astemirdum/library-circulation/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/Astemirdum/library-circulation/circulation/docs"
)

type Handler struct {
	circulationSvc CirculationService
	log            *zap.Logger
}

func New(circulationSvc CirculationService, log *zap.Logger) *Handler {
	return &Handler{
		circulationSvc: circulationSvc,
		log:            log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPost},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.AuthContext,
	)

	api.POST("/circulation/checkout", h.Checkout)
	api.POST("/circulation/renew", h.Renew)
	api.POST("/circulation/checkin", h.CheckIn, md.StaffOnly)

	api.GET("/copies/:copyId/availability", h.Availability)
	api.GET("/accounts/me", h.Me)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Checkout godoc
// @Summary  Check a copy out to the caller
// @Tags     circulation
// @Param    X-User-Name header string true "borrower id"
// @Param    request body model.CheckoutRequest true "copy"
// @Success  201 {object} model.LoanResponse
// @Failure  404,409 {object} echo.HTTPError
// @Router   /circulation/checkout [post]
func (h *Handler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	borrowerID, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return validationError(c, err)
	}

	rec, err := h.circulationSvc.Checkout(ctx, borrowerID, req.CopyID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, loanResponse(rec))
}

// Renew godoc
// @Summary  Extend the caller's loan of a copy
// @Tags     circulation
// @Param    X-User-Name header string true "borrower id"
// @Param    request body model.RenewRequest true "copy"
// @Success  200 {object} model.LoanResponse
// @Failure  404,409 {object} echo.HTTPError
// @Router   /circulation/renew [post]
func (h *Handler) Renew(c echo.Context) error {
	ctx := c.Request().Context()
	borrowerID, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.RenewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return validationError(c, err)
	}

	rec, err := h.circulationSvc.Renew(ctx, borrowerID, req.CopyID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loanResponse(rec))
}

// CheckIn godoc
// @Summary  Record the return of a copy
// @Tags     circulation
// @Param    X-User-Name header string true "staff id"
// @Param    X-User-Role header string true "librarian or admin"
// @Param    request body model.CheckInRequest true "return"
// @Success  200 {object} model.CheckInResult
// @Failure  403,404,409 {object} echo.HTTPError
// @Router   /circulation/checkin [post]
func (h *Handler) CheckIn(c echo.Context) error {
	var req model.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return validationError(c, err)
	}

	res, err := h.circulationSvc.CheckIn(c.Request().Context(), req.BorrowerID, req.CopyID, req.Location)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// Availability godoc
// @Summary  When a copy is expected back on the shelf
// @Tags     copies
// @Param    copyId path string true "copy id"
// @Success  200 {object} model.AvailabilityReport
// @Failure  404 {object} echo.HTTPError
// @Router   /copies/{copyId}/availability [get]
func (h *Handler) Availability(c echo.Context) error {
	copyID := c.Param("copyId")
	if copyID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "copyId is empty")
	}
	report, err := h.circulationSvc.RequestAvailability(c.Request().Context(), copyID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	borrowerID, err := auth.GetUserName(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	acc, err := h.circulationSvc.Account(ctx, borrowerID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, acc)
}

func loanResponse(rec model.CopyRecord) model.LoanResponse {
	return model.LoanResponse{
		CopyID:     rec.CopyID,
		ExpiresOn:  model.NewDate(rec.ExpiresOn),
		RenewsLeft: rec.RenewCount,
	}
}

func validationError(c echo.Context, err error) error {
	resp := errs.ValidationErrorResponse{Message: "validation failed"}
	resp.Errors.AdditionalProperties = err.Error()
	return c.JSON(http.StatusBadRequest, resp)
}

func httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrAlreadyCheckedIn),
		errors.Is(err, errs.ErrAlreadyCheckedOut),
		errors.Is(err, errs.ErrNoOpenTransaction),
		errors.Is(err, errs.ErrRenewalExhausted):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
