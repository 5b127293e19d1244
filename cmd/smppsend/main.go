// Command smppsend binds to an SMSC and submits one message, splitting it
// into parts when it does not fit a single short message.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"

	smpp "github.com/majiddarvishan/smppsession"
	"github.com/majiddarvishan/smppsession/config"
	"github.com/majiddarvishan/smppsession/pdu"
	"github.com/majiddarvishan/smppsession/utility"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	addr := flag.String("addr", "localhost:2775", "SMSC address")
	user := flag.String("user", "", "system id")
	pass := flag.String("pass", "", "password")
	mode := flag.String("mode", "trx", "bind mode: tx, rx or trx")
	src := flag.String("src", "", "source address")
	dst := flag.String("dst", "", "destination address")
	text := flag.String("text", "", "message text")
	strategy := flag.String("strategy", "udh8", "long message strategy: udh8, udh16 or sar")
	level := flag.String("level", "info", "log level")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg = &config.Config{
			Bind:    config.BindConfig{Addr: *addr, SystemID: *user, Password: *pass, Mode: *mode},
			Message: config.MessageConfig{Strategy: *strategy},
			Log:     config.LogConfig{Level: *level},
		}
		err = cfg.Normalize()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(cfg.Level()).With().Timestamp().Logger()

	if err := run(cfg, &logger, *src, *dst, *text); err != nil {
		logger.Fatal().Err(err).Msg("smppsend failed")
	}
}

func run(cfg *config.Config, logger *zerolog.Logger, src, dst, text string) error {
	bindMode, err := cfg.BindMode()
	if err != nil {
		return err
	}
	strategy, err := cfg.Strategy()
	if err != nil {
		return err
	}

	observer := smpp.NewMetricsObserver(metrics.NewRegistry(), nil)
	sc := cfg.SessionConf(logger)
	sc.Observer = observer
	sc.Handlers.Deliver = smpp.DeliverFunc(func(s *smpp.Session, req *pdu.DeliverSm) pdu.Status {
		ud, err := req.Message()
		if err != nil {
			return pdu.StatusSysErr
		}
		body, _ := s.Text(ud, req.DataCoding)
		logger.Info().Str("from", req.SourceAddr).Str("text", body).Msg("deliver_sm")
		return pdu.StatusOK
	})

	var sess *smpp.Session
	switch bindMode {
	case pdu.Transmitter:
		sess, err = smpp.BindTx(sc, cfg.BindConf())
	case pdu.Receiver:
		sess, err = smpp.BindRx(sc, cfg.BindConf())
	default:
		sess, err = smpp.BindTRx(sc, cfg.BindConf())
	}
	if err != nil {
		if sess != nil {
			sess.Close()
		}
		return fmt.Errorf("bind %s: %w", cfg.Bind.Addr, err)
	}
	logger.Info().Str("addr", cfg.Bind.Addr).Stringer("mode", bindMode).Msg("bound")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if bindMode == pdu.Receiver {
		<-ctx.Done()
	} else if err := submit(ctx, cfg, sess, strategy, src, dst, text); err != nil {
		sess.Close()
		return err
	}

	uctx, ucancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer ucancel()
	if err := smpp.Unbind(uctx, sess); err != nil {
		logger.Warn().Err(err).Msg("unbind")
	}

	latency := observer.Latency()
	logger.Info().
		Int64("sent", observer.Sent()).
		Int64("received", observer.Received()).
		Int64("failures", observer.Failures()).
		Dur("latency_mean", time.Duration(latency.Mean())).
		Msg("done")
	return nil
}

func submit(ctx context.Context, cfg *config.Config, sess *smpp.Session, strategy utility.Strategy, src, dst, text string) error {
	if dst == "" || text == "" {
		return fmt.Errorf("-dst and -text are required")
	}
	dc, auto, err := cfg.Coding()
	if err != nil {
		return err
	}
	if auto {
		dc = utility.DetectCoding(text)
	}

	parts, err := sess.PrepareSubmitLarge(strategy, smpp.Address{Addr: src}, smpp.Address{Ton: 1, Npi: 1, Addr: dst}, dc, text)
	if err != nil {
		return err
	}
	resps, err := sess.SubmitBatch(ctx, parts)
	for i, resp := range resps {
		fmt.Printf("part %d/%d message_id=%s status=%s\n", i+1, len(parts), resp.MessageID, resp.Status)
	}
	return err
}
