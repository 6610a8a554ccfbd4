// Package mockserver is a stand-in validation backend for the network
// access flow. It answers the request described by the fetch targets.
package mockserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Victor-armando18/discount-function/internal/domain/operation"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo     *echo.Echo
	verifier *Verifier
	replay   ReplayGuard
	logger   *zap.Logger
}

func NewServer(verifier *Verifier, replay ReplayGuard, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if replay == nil {
		replay = NewMemoryReplayGuard()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodPost, http.MethodOptions, http.MethodGet},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, HeaderRequestJWT, HeaderRequestID},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))

	s := &Server{echo: e, verifier: verifier, replay: replay, logger: logger}
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.Any("/api", s.handleAPI)
	return s
}

func (s *Server) Handler() http.Handler { return s.echo }

func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Echo() *echo.Echo { return s.echo }

type errorResponse struct {
	Error string `json:"error"`
}

// requestBody accepts both the flat fetch body and the older shape nesting it
// under "body".
type requestBody struct {
	EnteredDiscountCodes []string `json:"enteredDiscountCodes"`
	Body                 *struct {
		EnteredDiscountCodes []string `json:"enteredDiscountCodes"`
	} `json:"body"`
}

func (b requestBody) codes() []string {
	if b.Body != nil && b.EnteredDiscountCodes == nil {
		return b.Body.EnteredDiscountCodes
	}
	return b.EnteredDiscountCodes
}

func (s *Server) handleAPI(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.JSON(http.StatusMethodNotAllowed, errorResponse{Error: "Invalid request method. Only POST requests are allowed."})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	requestID, err := s.verifier.Verify(c.Request(), body)
	if err != nil {
		s.logger.Warn("rejected request", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
	}
	if requestID != "" {
		seen, err := s.replay.Seen(c.Request().Context(), requestID)
		if err != nil {
			s.logger.Error("replay guard unavailable", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "replay guard unavailable"})
		}
		if seen {
			return c.JSON(http.StatusConflict, errorResponse{Error: "request already processed"})
		}
	}

	var req requestBody
	if err := json.Unmarshal(body, &req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
	}
	valid := ValidCodes(req.codes())

	if c.QueryParam("format") == "codes" {
		return c.JSON(http.StatusOK, valid)
	}

	format := operation.FormatCurrent
	if f := operation.WireFormat(c.QueryParam("wire")); f != "" {
		if !f.Valid() {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown wire format"})
		}
		format = f
	}
	ops, err := operation.EncodeAll(Operations(valid), format)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, ops)
}
