// The worker drains the chat-directory sync queue and the email queue. A
// cron loop re-enqueues stale outbox rows so jobs lost between publish and
// consume self-heal.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Harsh-jhaa/Chat-app-backend/config"
	"github.com/Harsh-jhaa/Chat-app-backend/internal/domain/repository"
	pginfra "github.com/Harsh-jhaa/Chat-app-backend/internal/infrastructure/postgres"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/chatdir"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/mailer"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	outbox := pginfra.NewChatSyncRepository(pool)
	directory := chatdir.NewClient(cfg.ChatAPIKey, cfg.ChatAPISecret, cfg.ChatBaseURL)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	for _, q := range []string{cfg.ChatSyncQueue, cfg.EmailQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			log.Fatalf("queue declare %s: %v", q, err)
		}
	}

	syncMsgs, err := ch.Consume(cfg.ChatSyncQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume %s: %v", cfg.ChatSyncQueue, err)
	}
	emailMsgs, err := ch.Consume(cfg.EmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume %s: %v", cfg.EmailQueue, err)
	}

	syncPub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.ChatSyncQueue)
	if err != nil {
		log.Fatalf("re-drive publisher: %v", err)
	}
	defer syncPub.Close()

	w := &worker{
		cfg:       cfg,
		logger:    logger,
		users:     users,
		outbox:    outbox,
		directory: directory,
		syncPub:   syncPub,
	}
	if cfg.MailSendEnabled {
		w.mail = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}

	go w.consumeSync(ctx, syncMsgs)
	go w.consumeEmail(ctx, emailMsgs)

	// periodic re-drive of outbox rows whose jobs never arrived
	cr := cron.New()
	_, err = cr.AddFunc("@every "+cfg.ChatSyncRedrive.String(), func() { w.redrive(ctx) })
	if err != nil {
		log.Fatalf("cron: %v", err)
	}
	cr.Start()
	defer cr.Stop()

	logger.WithFields(logrus.Fields{
		"sync_queue":  cfg.ChatSyncQueue,
		"email_queue": cfg.EmailQueue,
	}).Info("worker listening")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("worker shutting down")
}

type worker struct {
	cfg       *config.Config
	logger    *logrus.Logger
	users     repository.UserRepository
	outbox    repository.ChatSyncRepository
	directory *chatdir.Client
	syncPub   *helpers.RabbitPublisher
	mail      *mailer.Mailgun
}

func (w *worker) consumeSync(ctx context.Context, msgs <-chan amqp.Delivery) {
	for msg := range msgs {
		var job chatdir.SyncMessage
		if err := json.Unmarshal(msg.Body, &job); err != nil || job.UserID == "" {
			w.logger.WithError(err).Warn("bad chat sync message")
			_ = msg.Nack(false, false)
			continue
		}
		if err := w.syncUser(ctx, job.UserID); err != nil {
			w.logger.WithError(err).WithField("user_id", job.UserID).Warn("chat sync failed, requeueing")
			_ = msg.Nack(false, true)
			continue
		}
		_ = msg.Ack(false)
	}
}

func (w *worker) syncUser(ctx context.Context, userID string) error {
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	u, err := w.users.GetByID(c, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// account deleted before the sync landed; nothing left to mirror
			return w.outbox.MarkSynced(c, userID)
		}
		return err
	}
	if err := w.directory.UpsertUser(c, chatdir.DirectoryUser{
		ID:    u.ID,
		Name:  u.FullName,
		Image: u.ProfilePicture,
	}); err != nil {
		return err
	}
	return w.outbox.MarkSynced(c, userID)
}

func (w *worker) consumeEmail(ctx context.Context, msgs <-chan amqp.Delivery) {
	for msg := range msgs {
		var job mailer.EmailJob
		if err := json.Unmarshal(msg.Body, &job); err != nil || job.To == "" {
			w.logger.WithError(err).Warn("bad email message")
			_ = msg.Nack(false, false)
			continue
		}
		if w.mail == nil {
			// sending disabled; drop quietly
			_ = msg.Ack(false)
			continue
		}
		c, cancel := context.WithTimeout(ctx, 15*time.Second)
		err := w.mail.Send(c, job.To, job.Subject, job.Text, job.HTML)
		cancel()
		if err != nil {
			w.logger.WithError(err).WithField("to", job.To).Warn("email send failed, requeueing")
			_ = msg.Nack(false, true)
			continue
		}
		_ = msg.Ack(false)
	}
}

func (w *worker) redrive(ctx context.Context) {
	cutoff := time.Now().Add(-w.cfg.ChatSyncStale)
	jobs, err := w.outbox.ListStalePending(ctx, cutoff, 100)
	if err != nil {
		w.logger.WithError(err).Error("outbox re-drive scan failed")
		return
	}
	for _, j := range jobs {
		if err := w.syncPub.PublishJSON(ctx, chatdir.SyncMessage{UserID: j.UserID}); err != nil {
			w.logger.WithError(err).WithField("user_id", j.UserID).Warn("re-drive publish failed")
		}
	}
	if len(jobs) > 0 {
		w.logger.WithField("count", len(jobs)).Info("re-drove stale chat sync jobs")
	}
}
