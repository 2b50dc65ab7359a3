package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dtnitsch/web-table-parser/internal/common"
	"github.com/dtnitsch/web-table-parser/models"
	"github.com/dtnitsch/web-table-parser/pkg/bridge"
	"github.com/dtnitsch/web-table-parser/pkg/db"
	"github.com/dtnitsch/web-table-parser/pkg/observer"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// maxLine bounds one request line. A longer line is answered with an
// invalid_request response and skipped.
const maxLine = 1 << 20

// ServeAction loads one page and answers newline-delimited JSON requests
// on stdin until EOF, one JSON response per line on stdout.
func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c).With("serve_id", uuid.NewString())

	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return cli.Exit("serve takes exactly one page. Usage: wtp serve <url-or-file>", 1)
	}
	sources, invalid := common.SanitizeSources(c.Args().Slice())
	if len(invalid) > 0 || len(sources) != 1 {
		return cli.Exit(fmt.Sprintf("malformed page address: %s", c.Args().First()), 1)
	}

	engine, err := common.NewEngine(cfg, logger)
	if err != nil {
		return err
	}
	h, err := engine.Open(c.Context, sources[0])
	if err != nil {
		return err
	}

	if !c.Bool("no-history") {
		database, err := db.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()
		h.Recorder = database
	}

	return Serve(c.Context, h, os.Stdin, os.Stdout, logger)
}

// Serve runs the request loop over r and w with the mutation observer
// watching h's page. It returns when r is exhausted or ctx is cancelled.
func Serve(ctx context.Context, h *bridge.Handler, r io.Reader, w io.Writer, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obs := observer.Watch(ctx, h.Page, h.Session, logger)
	defer func() {
		cancel()
		<-obs.Done()
	}()

	br := bufio.NewReaderSize(r, 64*1024)
	enc := json.NewEncoder(w)

	logger.Info("Serving requests", "url", common.PageURL(h))
	for {
		line, tooLong, err := readLine(br, maxLine)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read requests: %w", err)
		}
		if len(line) == 0 && !tooLong {
			continue
		}

		var resp models.Response
		var req models.Request
		if tooLong {
			logger.Warn("Request line too long", "limit", maxLine)
			resp = models.NewErrorResponse("invalid_request", fmt.Sprintf("request line exceeds %d bytes", maxLine))
		} else if err := json.Unmarshal(line, &req); err != nil {
			resp = models.NewErrorResponse("invalid_request", fmt.Sprintf("failed to decode request: %v", err))
		} else {
			resp = h.Handle(ctx, req)
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// readLine returns the next line of r without its terminator. Past limit
// bytes the rest of the line is discarded and tooLong is set.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, isPrefix, rerr := r.ReadLine()
		if rerr != nil {
			if errors.Is(rerr, io.EOF) && (len(line) > 0 || tooLong) {
				return line, tooLong, nil
			}
			return nil, false, rerr
		}
		if !tooLong {
			if len(line)+len(chunk) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}
