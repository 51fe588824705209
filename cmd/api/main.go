package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfarma/sales-force-api/infrastructure/database/postgres"
	"github.com/vfarma/sales-force-api/infrastructure/repository"
	"github.com/vfarma/sales-force-api/internal/api"
	"github.com/vfarma/sales-force-api/internal/config"
	"github.com/vfarma/sales-force-api/internal/scheduler"
	"github.com/vfarma/sales-force-api/internal/usecases/authenticating"
	"github.com/vfarma/sales-force-api/internal/usecases/reporting"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	orderRepo := repository.NewOrderRepository(pgConn)
	visitRepo := repository.NewVisitRepository(pgConn)
	planRepo := repository.NewPlanRepository(pgConn)
	clientRepo := repository.NewClientRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	reportService := reporting.NewService(cfg, orderRepo, visitRepo, planRepo, clientRepo)

	// Inicializa o agendador de acompanhamento de metas
	planProgressService := scheduler.NewPlanProgressService(orderRepo, planRepo, cfg)

	if err := planProgressService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de acompanhamento de metas")
	} else {
		logrus.Info("Agendador de acompanhamento de metas iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		reportService,
		authenticator,
		planProgressService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
