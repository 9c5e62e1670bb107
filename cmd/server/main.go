package main

import (
	"context"
	"log"
	"time"

	"cropline/internal/adapter/classify/gemini"
	"cropline/internal/adapter/classify/keyword"
	repofarmers "cropline/internal/adapter/farmers/repo"
	httpadapter "cropline/internal/adapter/http"
	metricsinmem "cropline/internal/adapter/metrics/inmemory"
	gormrepo "cropline/internal/adapter/repo/gorm"
	memrepo "cropline/internal/adapter/repo/memory"
	"cropline/internal/app/calls"
	"cropline/internal/app/dashboard"
	"cropline/internal/app/farmers"
	"cropline/internal/app/operators"
	"cropline/internal/app/ports"
	"cropline/internal/app/replay"
	"cropline/internal/app/session"
	"cropline/internal/config"
	"cropline/internal/domain/farm"
	"cropline/internal/domain/sim"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	cfg := config.Load()

	simCfg, err := config.LoadSimTuning(cfg.SimTuningPath)
	if err != nil {
		log.Fatalf("load sim tuning: %v", err)
	}

	repos := mustBuildRepos(cfg)
	kpiRecorder := metricsinmem.NewRecorder()
	classifier := buildClassifier(cfg)

	manager := &session.Manager{
		Farmers:      repofarmers.Source{Repo: repos.farmers},
		Sessions:     repos.sessions,
		Events:       repos.events,
		TxManager:    repos.tx,
		Metrics:      kpiRecorder,
		Cfg:          simCfg,
		Clock:        sim.RealClock{},
		TickInterval: cfg.TickInterval,
	}
	go manager.Run(context.Background())

	h := httpadapter.Handler{
		RegisterUC: operators.RegisterUseCase{
			Credentials: repos.credentials,
			TxManager:   repos.tx,
			Now:         time.Now,
		},
		VerifyUC: operators.VerifyUseCase{Credentials: repos.credentials},
		CallsUC: calls.UseCase{
			TxManager:  repos.tx,
			Calls:      repos.calls,
			Farmers:    repos.farmers,
			Classifier: classifier,
			Fallback:   keyword.New(),
			Metrics:    kpiRecorder,
			Now:        time.Now,
		},
		FarmersUC: farmers.UseCase{
			TxManager: repos.tx,
			Farmers:   repos.farmers,
			Calls:     repos.calls,
			Now:       time.Now,
		},
		DashboardUC: dashboard.UseCase{
			Farmers:  repos.farmers,
			Calls:    repos.calls,
			Sessions: repos.sessions,
			Now:      time.Now,
		},
		ReplayUC: replay.UseCase{Events: repos.events},
		Sessions: manager,
		KPI:      kpiRecorder,
	}

	if repos.memoryMode {
		resp, err := seedDemoOperator(repos)
		if err != nil {
			log.Fatalf("seed demo operator: %v", err)
		}
		log.Printf("demo operator credentials: id=%s key=%s", resp.OperatorID, resp.OperatorKey)
	}

	s := server.Default(server.WithHostPorts(cfg.Addr))
	h.RegisterRoutes(s)

	log.Printf("cropline server listening on %s", cfg.Addr)
	s.Spin()
}

type repoSet struct {
	farmers     ports.FarmerRepository
	calls       ports.CallRepository
	sessions    ports.SessionRepository
	events      ports.EventRepository
	credentials ports.OperatorCredentialRepository
	tx          ports.TxManager
	memoryMode  bool
}

func mustBuildRepos(cfg config.Config) repoSet {
	if cfg.DBDSN == "" {
		log.Println("CROPLINE_DB_DSN empty, using in-memory store with demo data")
		return buildMemoryRepos()
	}

	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, cfg.MigrationsDir); err != nil {
		log.Fatalf("apply migrations from %s: %v", cfg.MigrationsDir, err)
	}

	return repoSet{
		farmers:     gormrepo.NewFarmerRepo(db),
		calls:       gormrepo.NewCallRepo(db),
		sessions:    gormrepo.NewSessionRepo(db),
		events:      gormrepo.NewEventRepo(db),
		credentials: gormrepo.NewOperatorCredentialRepo(db),
		tx:          gormrepo.NewTxManager(db),
	}
}

func buildMemoryRepos() repoSet {
	store := memrepo.NewStore()
	store.SeedFarmer(farm.DefaultFarmer())
	return repoSet{
		farmers:     memrepo.NewFarmerRepo(store),
		calls:       memrepo.NewCallRepo(store),
		sessions:    memrepo.NewSessionRepo(store),
		events:      memrepo.NewEventRepo(store),
		credentials: memrepo.NewOperatorCredentialRepo(store),
		tx:          memrepo.NewTxManager(store),
		memoryMode:  true,
	}
}

func seedDemoOperator(repos repoSet) (operators.RegisterResponse, error) {
	uc := operators.RegisterUseCase{Credentials: repos.credentials, TxManager: repos.tx}
	return uc.Execute(context.Background(), operators.RegisterRequest{Name: "Demo Operator"})
}

// buildClassifier wires Gemini when a key is configured. Returning nil keeps
// the keyword fallback as the only classifier, which still classifies every
// call; the AI layer is an upgrade, never a requirement.
func buildClassifier(cfg config.Config) ports.NeedsClassifier {
	if cfg.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY empty, transcript classification uses keywords only")
		return nil
	}
	cls, err := gemini.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Printf("gemini classifier unavailable, using keywords: %v", err)
		return nil
	}
	log.Printf("gemini classifier enabled (model %s)", cfg.GeminiModel)
	return cls
}
