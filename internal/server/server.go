package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/neducation/spadays/internal/handler"
	"github.com/neducation/spadays/internal/ledger"
	"github.com/neducation/spadays/internal/middleware"
	"github.com/neducation/spadays/internal/store"
	ws "github.com/neducation/spadays/internal/websocket"
)

type Server struct {
	db      *sql.DB
	hub     *ws.Hub
	ledgerH *handler.LedgerHandler
	visitH  *handler.VisitHandler
	dailyH  *handler.DailyHandler
	rewardH *handler.RewardHandler
	backupH *handler.BackupHandler
	logger  *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	ledgerStore := store.NewLedgerStore(db)
	svc := ledger.New(ledgerStore, ledger.SystemClock{}, ledger.SystemRand(), logger.With("component", "ledger"))

	return &Server{
		db:      db,
		hub:     hub,
		ledgerH: handler.NewLedgerHandler(svc, logger.With("component", "ledger_handler")),
		visitH:  handler.NewVisitHandler(svc, hub, logger.With("component", "visit")),
		dailyH:  handler.NewDailyHandler(svc, hub, logger.With("component", "daily")),
		rewardH: handler.NewRewardHandler(svc, hub, logger.With("component", "reward")),
		backupH: handler.NewBackupHandler(svc, hub, logger.With("component", "backup")),
		logger:  logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Ledger snapshot + catalog
	mux.HandleFunc("GET /api/ledger", s.ledgerH.Snapshot)
	mux.HandleFunc("GET /api/catalog/services", s.rewardH.ListServices)
	mux.HandleFunc("GET /api/catalog/rewards", s.rewardH.ListRewards)

	// Visit awards
	mux.HandleFunc("POST /api/visits", s.visitH.Award)
	mux.HandleFunc("POST /api/visits/quick", s.visitH.QuickAward)
	mux.HandleFunc("POST /api/visits/preview", s.visitH.Preview)

	// Logins, daily bonus, derived views
	mux.HandleFunc("POST /api/login", s.dailyH.RecordLogin)
	mux.HandleFunc("GET /api/daily-bonus", s.dailyH.GetDailyBonus)
	mux.HandleFunc("POST /api/daily-bonus/claim", s.dailyH.ClaimDailyBonus)
	mux.HandleFunc("GET /api/streak/milestones", s.dailyH.Milestones)
	mux.HandleFunc("GET /api/challenges", s.dailyH.Challenges)

	// Redemption
	mux.HandleFunc("POST /api/rewards/{id}/redeem", s.rewardH.Redeem)

	// Encrypted backup
	mux.HandleFunc("POST /api/backup/export", s.backupH.Export)
	mux.HandleFunc("POST /api/backup/import", s.backupH.Import)

	// Real-time sync
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
