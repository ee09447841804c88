package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ifweave/ifweave/src/internal/api"
	"github.com/ifweave/ifweave/src/internal/config"
	"github.com/ifweave/ifweave/src/internal/events"
	"github.com/ifweave/ifweave/src/internal/log"
	"github.com/ifweave/ifweave/src/internal/service"
)

func CreateServiceCommand() *ServiceCommand {
	sc := &ServiceCommand{
		fs: flag.NewFlagSet("service", flag.ExitOnError),
	}

	sc.fs.BoolVar(&sc.NoAPI, "no-api", false, "Do not start the HTTP status API")

	return sc
}

type ServiceCommand struct {
	fs  *flag.FlagSet
	cfg *config.Config
	ctx *AppContext

	NoAPI bool

	svc       *service.Service
	apiServer *api.Server
}

func (s *ServiceCommand) Name() string {
	return s.fs.Name()
}

func (s *ServiceCommand) Init(args []string, ctx *AppContext) error {
	s.ctx = ctx

	if err := s.fs.Parse(args); err != nil {
		return err
	}

	if cfg, err := loadAndValidateConfigOrFail(ctx.ConfigPath); err != nil {
		return err
	} else {
		s.cfg = cfg
	}

	svc, err := service.New(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to build service: %v", err)
	}
	s.svc = svc

	return nil
}

func (s *ServiceCommand) Run() error {
	log.Infof("Starting ifweave service...")
	defer s.svc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	// Event monitor feeds the counter the requirement gates evaluate
	// against. The service degrades to pure polling if it cannot start.
	monitor := events.NewMonitor(s.svc.Counter(), s.cfg.ResolvConfPathOrDefault())
	go func() {
		if err := monitor.Run(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("Event monitor stopped: %v", err)
			log.Warnf("Requirement checks will rely on polling only")
		}
	}()

	if !s.NoAPI {
		s.apiServer = api.NewServer(s.svc, s.cfg.APIListenOrDefault())
		go func() {
			if err := s.apiServer.Start(); err != nil {
				log.Errorf("Failed to run API server: %v", err)
				log.Warnf("Status API will not be available")
			}
		}()
	} else {
		log.Infof("Status API is disabled")
	}

	interval := time.Duration(s.cfg.PollIntervalOrDefault()) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Infof("Service started successfully.")
	log.Infof("Send SIGHUP to force a requirement evaluation round")

	announced := false
	for {
		select {
		case <-ticker.C:
			s.evaluate(&announced)

		case sig := <-sigChan:
			switch sig {
			case syscall.SIGHUP:
				log.Infof("Received SIGHUP signal, evaluating requirements...")
				s.evaluate(&announced)

			case syscall.SIGINT, syscall.SIGTERM:
				log.Infof("Received signal %v, shutting down...", sig)
				return s.shutdown(cancel)
			}
		}
	}
}

func (s *ServiceCommand) evaluate(announced *bool) {
	s.svc.EvaluateAll()
	if s.svc.AllSatisfied() && !*announced {
		log.Infof("All requirements satisfied")
		*announced = true
	}
}

// shutdown performs graceful shutdown of all components.
func (s *ServiceCommand) shutdown(cancel context.CancelFunc) error {
	log.Infof("Shutting down ifweave service...")

	cancel()

	if s.apiServer != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()

		if err := s.apiServer.Stop(shutdownCtx); err != nil {
			log.Errorf("Error during API server shutdown: %v", err)
		}
	}

	log.Infof("Service stopped successfully")
	return nil
}
