package seedwire

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/tuannm99/seedsql/internal/sql/parser"
	"github.com/tuannm99/seedsql/pkg/ast"
	"github.com/tuannm99/seedsql/pkg/cache"
)

type ServerConfig struct {
	Addr         string
	CacheSize    int
	MaxFrameSize int
	ParseOptions []parser.Option
	Logger       *slog.Logger
}

// KindFrameError is the response kind for requests that could not be decoded.
const KindFrameError = "frame error"

const maxAcceptDelay = time.Second

// Server answers ParseRequests. Parsed documents are cached by the SHA-256
// of their source; cached documents are shared and must not be mutated.
type Server struct {
	opts     []parser.Option
	maxFrame int
	cache    *cache.LRU[[sha256.Size]byte, *ast.Document]
	log      *slog.Logger
}

func NewServer(sc ServerConfig) *Server {
	logger := sc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		opts:     sc.ParseOptions,
		maxFrame: sc.MaxFrameSize,
		cache:    cache.NewLRU[[sha256.Size]byte, *ast.Document](sc.CacheSize),
		log:      logger,
	}
}

// Run listens on sc.Addr and serves until SIGINT or SIGTERM.
func Run(sc ServerConfig) error {
	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := NewServer(sc)
	s.log.Info("seedsql parse server listening", "addr", ln.Addr().String(), "cache_size", sc.CacheSize)
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then closes ln and
// waits for open connections to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stopClose := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stopClose()

	var wg conc.WaitGroup
	defer wg.Wait()

	var delay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			// Back off on repeated failures such as EMFILE.
			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay = min(2*delay, maxAcceptDelay)
			}
			s.log.Warn("accept", "err", err, "retry_in", delay)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		delay = 0
		wg.Go(func() { s.handleConn(ctx, conn) })
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	remote := conn.RemoteAddr().String()
	s.log.Debug("connection opened", "remote", remote)

	codec := NewCodec(conn, s.maxFrame)
	for {
		var req ParseRequest
		var resp ParseResponse
		err := codec.Read(&req)
		var fe *FrameError
		switch {
		case errors.As(err, &fe):
			s.log.Warn("bad frame", "remote", remote, "err", err)
			resp = ParseResponse{Error: err.Error(), Kind: KindFrameError}
		case err != nil:
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.log.Warn("read frame", "remote", remote, "err", err)
			}
			s.log.Debug("connection closed", "remote", remote)
			return
		default:
			resp = s.Handle(req)
		}

		if err := codec.Write(resp); err != nil {
			s.log.Warn("write frame", "remote", remote, "id", req.ID, "err", err)
			return
		}
	}
}

// Handle parses one request, consulting the document cache first.
func (s *Server) Handle(req ParseRequest) ParseResponse {
	key := sha256.Sum256([]byte(req.SQL))
	if doc, ok := s.cache.Get(key); ok {
		s.log.Debug("parse cache hit", "id", req.ID)
		return ParseResponse{ID: req.ID, Document: doc, Cached: true}
	}

	doc, err := parser.Parse(req.SQL, s.opts...)
	if err != nil {
		resp := ParseResponse{ID: req.ID, Error: err.Error()}
		var pe *parser.Error
		if errors.As(err, &pe) {
			resp.Kind = pe.Kind.String()
		}
		s.log.Debug("parse failed", "id", req.ID, "kind", resp.Kind, "err", err)
		return resp
	}

	s.cache.Put(key, doc)
	s.log.Debug("parsed", "id", req.ID, "statements", len(doc.Statements))
	return ParseResponse{ID: req.ID, Document: doc}
}
