package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/vibe-commerce/api/internal/domain"
	"github.com/vibe-commerce/api/internal/repositories"
)

var (
	// ErrWalletInvalidInput indicates a wallet command failed validation.
	ErrWalletInvalidInput = errors.New("wallet: invalid input")
	// ErrWalletUnavailable indicates the wallet backend failed.
	ErrWalletUnavailable = errors.New("wallet: backend unavailable")
	// ErrWalletInsufficientFunds indicates the balance cannot cover the debit.
	ErrWalletInsufficientFunds = errors.New("wallet: insufficient funds")
)

// WalletServiceDeps bundles dependencies for NewWalletService.
type WalletServiceDeps struct {
	Repository     repositories.WalletRepository
	InitialBalance float64
	Clock          func() time.Time
	Logger         func(ctx context.Context, msg string, fields map[string]any)
}

type walletService struct {
	repo           repositories.WalletRepository
	initialBalance float64
	now            func() time.Time
	logger         func(ctx context.Context, msg string, fields map[string]any)
}

// NewWalletService builds a WalletService that seeds new sessions with the
// configured starting balance.
func NewWalletService(deps WalletServiceDeps) (WalletService, error) {
	if deps.Repository == nil {
		return nil, errors.New("wallet service requires a repository")
	}
	if deps.Clock == nil {
		return nil, errors.New("wallet service requires a clock")
	}
	if deps.InitialBalance < 0 {
		return nil, errors.New("wallet service requires a non-negative initial balance")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &walletService{
		repo:           deps.Repository,
		initialBalance: domain.RoundCents(deps.InitialBalance),
		now:            deps.Clock,
		logger:         logger,
	}, nil
}

func (s *walletService) Get(ctx context.Context, sessionID string) (Wallet, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return Wallet{}, ErrWalletInvalidInput
	}
	return s.load(ctx, sid)
}

func (s *walletService) Credit(ctx context.Context, cmd CreditWalletCommand) (Wallet, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	amount := domain.RoundCents(cmd.Amount)
	if sid == "" || amount <= 0 {
		return Wallet{}, ErrWalletInvalidInput
	}

	wallet, err := s.load(ctx, sid)
	if err != nil {
		return Wallet{}, err
	}

	wallet.Balance = domain.RoundCents(wallet.Balance + amount)
	if err := s.save(ctx, &wallet); err != nil {
		return Wallet{}, err
	}
	s.logger(ctx, "wallet.credited", map[string]any{
		"sessionID": sid,
		"amount":    amount,
		"balance":   wallet.Balance,
	})
	return wallet, nil
}

func (s *walletService) Debit(ctx context.Context, cmd DebitWalletCommand) (Wallet, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	amount := domain.RoundCents(cmd.Amount)
	if sid == "" || amount <= 0 {
		return Wallet{}, ErrWalletInvalidInput
	}

	wallet, err := s.load(ctx, sid)
	if err != nil {
		return Wallet{}, err
	}

	if wallet.Balance < amount {
		return wallet, ErrWalletInsufficientFunds
	}

	wallet.Balance = domain.RoundCents(wallet.Balance - amount)
	if err := s.save(ctx, &wallet); err != nil {
		return Wallet{}, err
	}
	s.logger(ctx, "wallet.debited", map[string]any{
		"sessionID": sid,
		"amount":    amount,
		"balance":   wallet.Balance,
	})
	return wallet, nil
}

// load seeds and persists a fresh wallet the first time a session asks for one.
func (s *walletService) load(ctx context.Context, sessionID string) (domain.Wallet, error) {
	wallet, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if !isRepoNotFound(err) {
			return domain.Wallet{}, ErrWalletUnavailable
		}
		wallet = domain.Wallet{SessionID: sessionID, Balance: s.initialBalance}
		if err := s.save(ctx, &wallet); err != nil {
			return domain.Wallet{}, err
		}
		s.logger(ctx, "wallet.seeded", map[string]any{
			"sessionID": sessionID,
			"balance":   wallet.Balance,
		})
	}
	return wallet, nil
}

func (s *walletService) save(ctx context.Context, wallet *domain.Wallet) error {
	wallet.UpdatedAt = s.now().UTC()
	if err := s.repo.Put(ctx, *wallet); err != nil {
		return ErrWalletUnavailable
	}
	return nil
}
