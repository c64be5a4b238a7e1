package controllers

import (
	"context"
	"net/http"
	"settlement-service/internal/pkg/constvars"
	"settlement-service/internal/pkg/utils"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type HealthController struct {
	Log   *zap.Logger
	Mongo *mongo.Client
	Redis *redis.Client
}

var (
	healthControllerInstance *HealthController
	onceHealthController     sync.Once
)

func NewHealthController(logger *zap.Logger, mongoClient *mongo.Client, redisClient *redis.Client) *HealthController {
	onceHealthController.Do(func() {
		instance := &HealthController{
			Log:   logger,
			Mongo: mongoClient,
			Redis: redisClient,
		}
		healthControllerInstance = instance
	})
	return healthControllerInstance
}

func (ctrl *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, map[string]string{"status": "ok"})
}

// Readyz pings the stores settlement cannot run without. RabbitMQ is absent
// on purpose: event delivery is best effort and must not gate traffic.
func (ctrl *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := ctrl.Mongo.Ping(ctx, nil); err != nil {
		ctrl.Log.Warn("healthController.Readyz mongo ping failed", zap.Error(err))
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		w.WriteHeader(constvars.StatusServiceUnavailable)
		return
	}
	if err := ctrl.Redis.Ping(ctx).Err(); err != nil {
		ctrl.Log.Warn("healthController.Readyz redis ping failed", zap.Error(err))
		w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
		w.WriteHeader(constvars.StatusServiceUnavailable)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ResponseSuccess, map[string]string{"status": "ready"})
}
