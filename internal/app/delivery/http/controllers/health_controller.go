package controllers

import (
	"context"
	"medibook-service/internal/pkg/constvars"
	"medibook-service/internal/pkg/utils"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type HealthController struct {
	Log     *zap.Logger
	MongoDB *mongo.Client
	Redis   *redis.Client
}

var (
	healthControllerInstance *HealthController
	onceHealthController     sync.Once
)

func NewHealthController(logger *zap.Logger, mongoClient *mongo.Client, redisClient *redis.Client) *HealthController {
	onceHealthController.Do(func() {
		instance := &HealthController{
			Log:     logger,
			MongoDB: mongoClient,
			Redis:   redisClient,
		}
		healthControllerInstance = instance
	})
	return healthControllerInstance
}

func (ctrl *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{
		"mongodb": "up",
		"redis":   "up",
	}

	if ctrl.MongoDB != nil {
		if err := ctrl.MongoDB.Ping(ctx, nil); err != nil {
			status["mongodb"] = "down"
		}
	}
	if ctrl.Redis != nil {
		if err := ctrl.Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
		}
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.HealthCheckSuccess, status)
}
