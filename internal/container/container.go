package container

import (
	"cloud.google.com/go/storage"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Harsh-jhaa/Chat-app-backend/config"
	"github.com/Harsh-jhaa/Chat-app-backend/pkg/helpers"
)

// app-level container sharing constructed singletons across packages so the
// router registry can auto-wire modules.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager

	chatSyncPub *helpers.RabbitPublisher
	emailPub    *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)   { cfg = c }
func GetConfig() *config.Config    { return cfg }
func SetLogger(l *logrus.Logger)   { logger = l }
func GetLogger() *logrus.Logger    { return logger }
func SetPGPool(p *pgxpool.Pool)    { pgPool = p }
func GetPGPool() *pgxpool.Pool     { return pgPool }
func SetRedis(r *redis.Client)     { redisClient = r }
func GetRedis() *redis.Client      { return redisClient }
func SetGCS(s *storage.Client)     { gcsClient = s }
func GetGCS() *storage.Client      { return gcsClient }
func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager  { return jwtManager }

func SetChatSyncPub(p *helpers.RabbitPublisher) { chatSyncPub = p }
func GetChatSyncPub() *helpers.RabbitPublisher  { return chatSyncPub }
func SetEmailPub(p *helpers.RabbitPublisher)    { emailPub = p }
func GetEmailPub() *helpers.RabbitPublisher     { return emailPub }
