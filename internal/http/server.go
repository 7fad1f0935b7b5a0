package http

import (
	"github.com/gin-gonic/gin"
)

// Server owns the gin engine built by NewRouter. Run blocks until the
// listener fails.
type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

func (s *Server) Run(addr string) error {
	return s.Engine.Run(addr)
}
