package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/curriculum"
	"github.com/trezcool/shule/core/report"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
	sqlxrepos "github.com/trezcool/shule/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	logger := logsvc.NewRollbarLogger(std, core.Conf)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := database.Open(core.Conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer db.Close()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	stdSvc := student.NewService(sqlxrepos.NewStudentRepository(db))
	currSvc := curriculum.NewService(sqlxrepos.NewCurriculumRepository(db))
	asmtSvc := assessment.NewService(sqlxrepos.NewAssessmentRepository(db), currSvc, stdSvc)
	reportSvc := report.NewService(stdSvc, currSvc, asmtSvc, mailSvc)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:       core.Conf.ServerAddress(),
			Logger:        logger,
			Shutdown:      shutdown,
			UserSvc:       usrSvc,
			StudentSvc:    stdSvc,
			CurriculumSvc: currSvc,
			AssessmentSvc: asmtSvc,
			ReportSvc:     reportSvc,
		},
	)

	serverErrs := make(chan error, 1)
	go func() {
		logger.Info("server listening on " + core.Conf.ServerAddress())
		serverErrs <- app.Start()
	}()

	select {
	case err := <-serverErrs:
		logger.Fatal("server error", err)
	case sig := <-shutdown:
		logger.Info("shutdown started: " + sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			logger.Error("graceful shutdown failed", err)
		}
	}
}
