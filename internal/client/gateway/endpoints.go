package gateway

import (
	"context"
	"net/http"

	"github.com/refi-rr/crypto-dss/internal/core/domain"
)

// LoginResult is the payload returned by a successful login.
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *domain.User `json:"user"`
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Username         string `json:"username"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	Role             string `json:"role,omitempty"`
	SubscriptionDays int    `json:"subscription_days,omitempty"`
}

// UserUpdate carries the mutable member fields; zero values are omitted.
type UserUpdate struct {
	Email            string `json:"email,omitempty"`
	Role             string `json:"role,omitempty"`
	Status           string `json:"status,omitempty"`
	SubscriptionDays int    `json:"subscription_days,omitempty"`
}

// DashboardStats mirrors the admin analytics dashboard payload.
type DashboardStats struct {
	TotalUsers     int                     `json:"total_users"`
	ActiveUsers    int                     `json:"active_users"`
	TotalAnalyses  int                     `json:"total_analyses"`
	RecentAnalyses []domain.AnalysisRecord `json:"recent_analyses"`
}

// BacktestInput parametrizes a strategy replay.
type BacktestInput struct {
	Pair           string  `json:"pair"`
	Timeframe      string  `json:"timeframe"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	InitialCapital float64 `json:"initial_capital"`
}

// Login authenticates and persists the returned credential.
func (g *Gateway) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var res LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := g.Request(ctx, http.MethodPost, "/auth/login", body, &res, SkipAuth()); err != nil {
		return nil, err
	}
	if err := g.store.SetToken(res.AccessToken); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates a new account. No credential is issued.
func (g *Gateway) Register(ctx context.Context, in RegisterInput) error {
	return g.Request(ctx, http.MethodPost, "/auth/register", in, nil, SkipAuth())
}

// ForgotPassword requests a password-reset token for the given email.
func (g *Gateway) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return g.Request(ctx, http.MethodPost, "/auth/forgot-password", body, nil, SkipAuth())
}

// CurrentUser fetches the identity bound to the stored credential.
func (g *Gateway) CurrentUser(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := g.Request(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Users lists all members. Admin only.
func (g *Gateway) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := g.Request(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial update to a member. Admin only.
func (g *Gateway) UpdateUser(ctx context.Context, id string, update UserUpdate) error {
	return g.Request(ctx, http.MethodPut, "/users/"+id, update, nil)
}

// DeleteUser removes a member. Admin only.
func (g *Gateway) DeleteUser(ctx context.Context, id string) error {
	return g.Request(ctx, http.MethodDelete, "/users/"+id, nil, nil)
}

// TradingPairs lists the tradable pairs.
func (g *Gateway) TradingPairs(ctx context.Context) ([]string, error) {
	var res struct {
		Pairs []string `json:"pairs"`
	}
	if err := g.Request(ctx, http.MethodGet, "/trading/pairs", nil, &res); err != nil {
		return nil, err
	}
	return res.Pairs, nil
}

// Analyze runs a signal analysis for one pair and timeframe.
func (g *Gateway) Analyze(ctx context.Context, pair, timeframe string) (*domain.Analysis, error) {
	var res domain.Analysis
	body := map[string]string{"pair": pair, "timeframe": timeframe}
	if err := g.Request(ctx, http.MethodPost, "/trading/analyze", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Backtest replays the strategy over a historical window.
func (g *Gateway) Backtest(ctx context.Context, in BacktestInput) (*domain.BacktestResult, error) {
	var res domain.BacktestResult
	if err := g.Request(ctx, http.MethodPost, "/trading/backtest", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// BacktestHistory lists the caller's previous backtest runs.
func (g *Gateway) BacktestHistory(ctx context.Context) ([]domain.BacktestResult, error) {
	var res []domain.BacktestResult
	if err := g.Request(ctx, http.MethodGet, "/trading/backtest-history", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// WinRate fetches the caller's aggregated signal outcomes.
func (g *Gateway) WinRate(ctx context.Context) (*domain.WinRateStats, error) {
	var res domain.WinRateStats
	if err := g.Request(ctx, http.MethodGet, "/trading/win-rate", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Dashboard fetches the admin analytics dashboard.
func (g *Gateway) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var res DashboardStats
	if err := g.Request(ctx, http.MethodGet, "/analytics/dashboard", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// History lists analysis history, scoped by the server to the caller's role.
func (g *Gateway) History(ctx context.Context) ([]domain.AnalysisRecord, error) {
	var res []domain.AnalysisRecord
	if err := g.Request(ctx, http.MethodGet, "/analytics/history", nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// ReportOutcome records a win/loss outcome for a previously analyzed signal.
func (g *Gateway) ReportOutcome(ctx context.Context, recordID, outcome string, profitLoss float64) error {
	body := map[string]any{"outcome": outcome, "profit_loss": profitLoss}
	return g.Request(ctx, http.MethodPost, "/trading/signals/"+recordID+"/outcome", body, nil)
}
