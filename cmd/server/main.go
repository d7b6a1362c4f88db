package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"regbot/bot"
	"regbot/entity"
	"regbot/impl/admin"
	"regbot/impl/broadcast"
	"regbot/impl/core"
	"regbot/impl/flow"
	"regbot/impl/gate"
	"regbot/internal/config"
	"regbot/internal/database"
	"regbot/internal/http-server/api"
	"regbot/lib/logger"
	"regbot/lib/sl"
	"strings"
	"syscall"
	"time"
)

// store is everything the flows, the admin surface and the export need.
type store interface {
	flow.Store
	admin.Store
}

type closer func()

func main() {
	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)
	lg.Info("starting regbot",
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		slog.String("run_mode", conf.RunMode),
		slog.String("store", conf.Store),
	)

	db, closeDb, err := openStore(conf, lg)
	if err != nil {
		lg.Error("store", sl.Err(err))
		os.Exit(1)
	}
	defer closeDb()

	bots := map[entity.Flow]config.Bot{
		entity.FlowGeneral:     conf.Bots.General,
		entity.FlowStudyCenter: conf.Bots.StudyCenter,
	}
	tgBots := make(map[entity.Flow]*bot.TgBot)
	var notifiers []logger.Notifier
	for name, bc := range bots {
		if !bc.Enabled {
			continue
		}
		tgBot, err := bot.NewTgBot(bc.Token, bc.AdminId, lg)
		if err != nil {
			lg.With(slog.String("flow", string(name))).Error("telegram bot", sl.Err(err))
			os.Exit(1)
		}
		tgBot.RegisterCommands()
		tgBots[name] = tgBot
		notifiers = append(notifiers, tgBot)
	}
	if len(tgBots) == 0 {
		lg.Error("no bots enabled")
		os.Exit(1)
	}
	lg = logger.WithTelegram(lg, slog.LevelError, notifiers...)

	sessionTTL := time.Duration(conf.Broadcast.SessionTTLMin) * time.Minute
	handler := core.New(db, lg)
	for name, tgBot := range tgBots {
		bc := bots[name]
		definition, ok := flow.ByName(name)
		if !ok {
			lg.Error("unknown flow", slog.String("flow", string(name)))
			os.Exit(1)
		}
		links := flow.Links{
			ChannelUsername: bc.ChannelUsername,
			Instagram:       bc.InstagramLink,
			YouTube:         bc.YouTubeLink,
		}
		machine := flow.New(definition, db, tgBot, gate.New(tgBot, bc.ChannelId, lg), links, lg)
		caster := broadcast.New(name, db, tgBot, lg)
		dispatcher := admin.New(name, admin.FixedID(bc.AdminId), db, tgBot, caster, broadcast.NewSessions(sessionTTL), lg)
		dispatcher.SetExportURL(exportURL(conf.Export.BaseURL, name))

		app := core.NewApp(machine, dispatcher, tgBot, lg)
		tgBot.SetHandler(app)
		handler.Register(app)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	switch conf.RunMode {
	case config.RunModePolling:
		for name, tgBot := range tgBots {
			go func(name entity.Flow, tgBot *bot.TgBot) {
				if err := tgBot.Start(); err != nil {
					lg.With(slog.String("flow", string(name))).Error("polling", sl.Err(err))
				}
			}(name, tgBot)
		}
		<-stop
		for _, tgBot := range tgBots {
			tgBot.Stop()
		}
	default:
		server := api.New(conf, lg, handler)
		go func() {
			if err := server.Start(); err != nil {
				lg.Error("server", sl.Err(err))
				stop <- syscall.SIGTERM
			}
		}()
		<-stop
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("server shutdown", sl.Err(err))
		}
	}
	lg.Info("regbot stopped")
}

func openStore(conf *config.Config, lg *slog.Logger) (store, closer, error) {
	switch conf.Store {
	case config.StoreMongo:
		mongo := database.NewMongoClient(conf)
		if mongo == nil {
			return nil, nil, fmt.Errorf("mongo is disabled")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		lg.With(sl.Secret("user", conf.Mongo.User)).Info("mongo store", slog.String("host", conf.Mongo.Host))
		return mongo, func() {}, nil
	case config.StoreMySQL:
		mysql, err := database.NewSQLClient(conf)
		if err != nil {
			return nil, nil, err
		}
		lg.With(sl.Secret("user", conf.MySql.UserName)).Info("mysql store", slog.String("host", conf.MySql.HostName))
		return mysql, mysql.Close, nil
	default:
		if conf.Env == "prod" {
			lg.Warn("in-memory store in production, registrations are lost on restart")
		}
		return database.NewMemory(), func() {}, nil
	}
}

// exportURL derives the per-flow download link from the configured base.
func exportURL(base string, name entity.Flow) string {
	if base == "" || name == entity.FlowGeneral {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + name.Slug()
}
