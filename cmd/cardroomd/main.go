package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"

	"cardroom/pkg/logging"
	"cardroom/pkg/modules"
	"cardroom/pkg/server"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func realMain() error {
	// Optional .env next to the binary; flags take precedence over the
	// environment.
	_ = godotenv.Load()

	var (
		addr       string
		debugLevel string
		logFile    string
	)
	flag.StringVar(&addr, "addr", envOr("CARDROOM_ADDR", "127.0.0.1:4000"),
		"Address to listen on")
	flag.StringVar(&debugLevel, "debuglevel", envOr("CARDROOM_DEBUG", "info"),
		"Logging level (trace, debug, info, warn, error, critical)")
	flag.StringVar(&logFile, "logfile", os.Getenv("CARDROOM_LOGFILE"),
		"Optional rotated log file")
	flag.Parse()

	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:     logFile,
		DebugLevel:  debugLevel,
		MaxLogFiles: 5,
	})
	if err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer logBackend.Close()
	log := logBackend.Logger("SRVR")

	loaded := modules.Load()
	if len(loaded) == 0 {
		return fmt.Errorf("no game modules available")
	}
	for idx, info := range loaded {
		log.Infof("module %d: %s", idx, info.Name)
	}

	manager := server.NewManager(logBackend.Logger("MNGR"))
	gameLog := logBackend.Logger("GAME")

	upgrader := websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}

	r := mux.NewRouter()
	r.HandleFunc("/create/{module:[0-9]+}", func(w http.ResponseWriter, req *http.Request) {
		idx, err := strconv.Atoi(mux.Vars(req)["module"])
		if err != nil || idx >= len(loaded) {
			http.Error(w, "unknown module", http.StatusNotFound)
			return
		}
		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Debugf("websocket upgrade failed: %v", err)
			return
		}
		manager.Create(loaded[idx].Create(gameLog), server.NewWSConn(ws))
	})
	r.HandleFunc("/join/{game:[0-9]+}", func(w http.ResponseWriter, req *http.Request) {
		id, err := strconv.Atoi(mux.Vars(req)["game"])
		if err != nil {
			http.Error(w, "bad game id", http.StatusNotFound)
			return
		}
		ws, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Debugf("websocket upgrade failed: %v", err)
			return
		}
		manager.Join(id, server.NewWSConn(ws))
	})

	log.Infof("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

func main() {
	if err := realMain(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
