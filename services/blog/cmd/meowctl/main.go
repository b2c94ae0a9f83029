package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"meow-site/pkg/config"
	"meow-site/pkg/database"
	"meow-site/pkg/jwt"
	"meow-site/pkg/logger"
	"meow-site/pkg/queue"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
	"meow-site/services/blog/internal/usecase"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	newApp().RunAndExitOnError()
}

func newApp() *cli.App {
	app := &cli.App{
		Name:  "meowctl",
		Usage: "administration tool for Meow Site accounts and moderation",
	}
	actorFlag := &cli.StringFlag{
		Name:     "actor",
		Usage:    "handle of the administrator performing the action",
		Required: true,
	}
	reasonFlag := &cli.StringFlag{
		Name:  "reason",
		Usage: "reason shown to the sanctioned account",
	}
	app.Commands = []*cli.Command{
		&cli.Command{
			Name:      "create-admin",
			Usage:     "register an administrator account",
			ArgsUsage: "<username>",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "email", Required: true},
				&cli.StringFlag{Name: "phone", Required: true},
				&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"MEOW_ADMIN_PASSWORD"}},
			},
			Action: runCreateAdmin,
		},
		&cli.Command{
			Name:      "mute",
			Usage:     "mute an account, permanently unless --hours is set",
			ArgsUsage: "<username>",
			Flags: []cli.Flag{
				actorFlag,
				reasonFlag,
				&cli.IntFlag{Name: "hours", Usage: "mute duration in hours"},
			},
			Action: runMute,
		},
		&cli.Command{
			Name:      "unmute",
			Usage:     "lift a mute",
			ArgsUsage: "<username>",
			Flags:     []cli.Flag{actorFlag},
			Action:    runUnmute,
		},
		&cli.Command{
			Name:      "ban",
			Usage:     "ban an account, permanently unless --days is set",
			ArgsUsage: "<username>",
			Flags: []cli.Flag{
				actorFlag,
				reasonFlag,
				&cli.IntFlag{Name: "days", Usage: "ban duration in days"},
			},
			Action: runBan,
		},
		&cli.Command{
			Name:      "unban",
			Usage:     "lift a ban",
			ArgsUsage: "<username>",
			Flags:     []cli.Flag{actorFlag},
			Action:    runUnban,
		},
		&cli.Command{
			Name:   "reconcile",
			Usage:  "clear every expired mute and ban",
			Action: runReconcile,
		},
		&cli.Command{
			Name:   "audit",
			Usage:  "print moderation events from the audit queue until interrupted",
			Action: runAudit,
		},
	}
	return app
}

// env holds what every command needs: a database and the moderation use
// cases over it. Events are published when RabbitMQ is reachable.
type env struct {
	db          *gorm.DB
	log         *logger.Logger
	cfg         *config.Config
	accounts    persistent.AccountRepository
	moderation  usecase.ModerationUseCase
	queueClient *queue.Client
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New()

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	e := &env{db: db, log: log, cfg: cfg, accounts: persistent.NewAccountRepository(db)}

	var publisher usecase.EventPublisher
	if client, err := queue.NewRabbitMQClient(cfg, log); err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (events will not be published)", err)
	} else {
		e.queueClient = client
		publisher = client
	}

	e.moderation = usecase.NewModerationUseCase(e.accounts, persistent.NewModerationRepository(db), publisher, log, nil)
	return e, nil
}

func (e *env) close() {
	if e.queueClient != nil {
		e.queueClient.Close()
	}
	if sqlDB, err := e.db.DB(); err == nil {
		sqlDB.Close()
	}
	e.log.Sync()
}

// parties resolves the acting administrator and the target handle.
func (e *env) parties(cctx *cli.Context) (string, string, error) {
	target := cctx.Args().First()
	if target == "" {
		return "", "", fmt.Errorf("need to provide a username as an argument")
	}

	actor, err := e.accounts.GetByUsername(cctx.Context, cctx.String("actor"))
	if err != nil {
		return "", "", fmt.Errorf("actor %s: %w", cctx.String("actor"), err)
	}
	account, err := e.accounts.GetByUsername(cctx.Context, target)
	if err != nil {
		return "", "", fmt.Errorf("account %s: %w", target, err)
	}
	return actor.ID, account.ID, nil
}

func optionalInt(cctx *cli.Context, name string) *int {
	if !cctx.IsSet(name) {
		return nil
	}
	n := cctx.Int(name)
	return &n
}

func printState(account *entity.Account) error {
	out, err := json.MarshalIndent(account.Moderation, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s\n", account.Username, out)
	return nil
}

func runCreateAdmin(cctx *cli.Context) error {
	username := cctx.Args().First()
	if username == "" {
		return fmt.Errorf("need to provide a username as an argument")
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	auth := usecase.NewAuthUseCase(
		e.accounts,
		persistent.NewModerationRepository(e.db),
		jwt.NewService(e.cfg.JWTSecret),
		nil,
		e.cfg.SessionTTL,
		e.cfg.RememberMeTTL,
		e.log,
		nil,
	)
	account, _, err := auth.Register(cctx.Context, usecase.RegisterInput{
		Username: username,
		Email:    cctx.String("email"),
		Phone:    cctx.String("phone"),
		Password: cctx.String("password"),
	})
	if err != nil {
		return err
	}

	account.IsAdmin = true
	if err := e.accounts.Update(cctx.Context, account); err != nil {
		return err
	}
	fmt.Printf("created administrator %s (%s)\n", account.Username, account.ID)
	return nil
}

func runMute(cctx *cli.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	actorID, targetID, err := e.parties(cctx)
	if err != nil {
		return err
	}
	account, err := e.moderation.Mute(cctx.Context, actorID, targetID, optionalInt(cctx, "hours"), cctx.String("reason"))
	if err != nil {
		return err
	}
	return printState(account)
}

func runUnmute(cctx *cli.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	actorID, targetID, err := e.parties(cctx)
	if err != nil {
		return err
	}
	account, err := e.moderation.Unmute(cctx.Context, actorID, targetID)
	if err != nil {
		return err
	}
	return printState(account)
}

func runBan(cctx *cli.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	actorID, targetID, err := e.parties(cctx)
	if err != nil {
		return err
	}
	account, err := e.moderation.Ban(cctx.Context, actorID, targetID, optionalInt(cctx, "days"), cctx.String("reason"))
	if err != nil {
		return err
	}
	return printState(account)
}

func runUnban(cctx *cli.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	actorID, targetID, err := e.parties(cctx)
	if err != nil {
		return err
	}
	account, err := e.moderation.Unban(cctx.Context, actorID, targetID)
	if err != nil {
		return err
	}
	return printState(account)
}

func runReconcile(cctx *cli.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	mutes, bans, err := e.moderation.Reconcile(cctx.Context)
	if err != nil {
		return err
	}
	fmt.Printf("cleared %d expired mutes and %d expired bans\n", mutes, bans)
	return nil
}

func runAudit(cctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New()
	defer log.Sync()

	client, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return client.Consume(ctx, queue.AuditQueueName, func(event queue.Event) error {
		out, err := json.Marshal(event)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	})
}
