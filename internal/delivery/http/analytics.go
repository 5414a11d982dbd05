package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"social-analytics-backend/internal/delivery/http/utils"
	"social-analytics-backend/internal/entity"
	"social-analytics-backend/internal/usecase"
)

type Analytics struct {
	analyticsUseCase usecase.Analytics
	accountsUseCase  usecase.Accounts
	liveChannel      usecase.LiveChannel
}

func NewAnalytics(
	analyticsUseCase usecase.Analytics,
	accountsUseCase usecase.Accounts,
	liveChannel usecase.LiveChannel,
) *Analytics {
	return &Analytics{
		analyticsUseCase: analyticsUseCase,
		accountsUseCase:  accountsUseCase,
		liveChannel:      liveChannel,
	}
}

func (a *Analytics) Configure(server *echo.Group) {
	server.GET("/snapshot", a.GetSnapshot)
	server.GET("/accounts", a.GetAccounts)
	server.POST("/accounts/select", a.SelectAccount)
}

// GetSnapshot loads a full analytics snapshot for a platform selection. The
// classifier category decides the user-facing behavior: expired credentials
// ask for a reconnect, a missing account asks for a connect, partial failure
// still returns data plus a non-blocking warning.
func (a *Analytics) GetSnapshot(c echo.Context) error {
	request := &entity.GetSnapshotRequest{}
	if err := utils.ReadQuery(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request format",
		})
	}
	platform, err := entity.ParsePlatform(request.Platform)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Unknown platform",
		})
	}

	snapshot, err := a.analyticsUseCase.LoadSnapshot(c.Request().Context(), platform, request.AccountID)
	switch {
	case errors.Is(err, usecase.ErrCredentialExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"error":  "Your connection to this platform has expired. Please reconnect the account.",
			"action": "reconnect",
		})
	case errors.Is(err, usecase.ErrNoAccountConnected):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error":  "No account is connected for this platform. Connect one to see analytics.",
			"action": "connect",
		})
	case errors.Is(err, usecase.ErrPartialFailure):
		// Partial data still renders; the snapshot carries the warning.
		a.liveChannel.Replace(snapshot)
		return c.JSON(http.StatusOK, snapshot)
	case errors.Is(err, usecase.ErrGenericFailure):
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "The platform is temporarily unavailable. Please try again.",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Server error",
		})
	}

	a.liveChannel.Replace(snapshot)
	return c.JSON(http.StatusOK, snapshot)
}

func (a *Analytics) GetAccounts(c echo.Context) error {
	request := &entity.GetAccountsRequest{}
	if err := utils.ReadQuery(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request format",
		})
	}
	platform, err := entity.ParsePlatform(request.Platform)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Unknown platform",
		})
	}

	state, err := a.accountsUseCase.ResolveAccounts(c.Request().Context(), platform)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "Could not load connected accounts",
		})
	}
	return c.JSON(http.StatusOK, state)
}

func (a *Analytics) SelectAccount(c echo.Context) error {
	request := &entity.SelectAccountRequest{}
	if err := utils.ReadJSON(c, request); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request format",
		})
	}
	platform, err := entity.ParsePlatform(request.Platform)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Unknown platform",
		})
	}

	state, err := a.accountsUseCase.SelectAccount(c.Request().Context(), platform, request.AccountID)
	switch {
	case errors.Is(err, usecase.ErrAccountNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "This account is not connected to the platform",
		})
	case err != nil:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Server error",
		})
	}
	return c.JSON(http.StatusOK, state)
}
