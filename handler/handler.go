package handler

import (
	"github.com/emzola/libraria/config"
	"github.com/emzola/libraria/data"
	"github.com/emzola/libraria/internal/jsonlog"
	"github.com/emzola/libraria/service"
	"github.com/jellydator/ttlcache/v3"
)

// Handler defines Handler layer.
type Handler struct {
	config  config.Config
	logger  *jsonlog.Logger
	cache   *ttlcache.Cache[int64, *data.Staff]
	service service.Service
}

// New creates a new instance of Handler. The cache holds authenticated staff
// accounts keyed by id.
func New(cfg config.Config, logger *jsonlog.Logger, cache *ttlcache.Cache[int64, *data.Staff], service service.Service) *Handler {
	return &Handler{
		config:  cfg,
		logger:  logger,
		cache:   cache,
		service: service,
	}
}
