package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"MockShop/internal/monitor"
	"MockShop/pkg/kit"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
	streamPongWait   = streamPingPeriod + 10*time.Second
)

type healthHandlers struct {
	mon     *monitor.Monitor
	log     *zap.Logger
	origins []string
}

// services returns the latest report, running a check if none exists yet.
func (h *healthHandlers) services(r *http.Request) kit.Result {
	rep, ok := h.mon.Latest()
	if !ok {
		if rep, ok = h.mon.CheckNow(detached(r)); !ok {
			return kit.Err{Status: http.StatusServiceUnavailable, Message: "Health check in progress"}
		}
	}
	return kit.Ok{Data: rep}
}

func (h *healthHandlers) check(r *http.Request) kit.Result {
	rep, ran := h.mon.CheckNow(detached(r))
	if !ran {
		if _, ok := h.mon.Latest(); !ok {
			return kit.Err{Status: http.StatusServiceUnavailable, Message: "Health check in progress"}
		}
		return kit.Ok{Data: rep, Message: "Health check already in progress"}
	}
	return kit.Ok{Data: rep, Message: "Health check completed"}
}

// detached keeps request values but not its cancellation: a report is shared
// with every reader, so one caller going away must not mark services down.
// The client timeout still bounds each probe.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func (h *healthHandlers) readyz(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.mon.Latest()
	if !ok || !rep.AllHealthy {
		kit.WriteError(w, r, http.StatusServiceUnavailable, "Services not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *healthHandlers) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || kit.OriginAllowed(h.origins, origin) {
				return true
			}
			h.log.Warn("websocket origin rejected", zap.String("origin", origin))
			return false
		},
	}
}

// stream pushes every new report to the client as a JSON text frame,
// starting with the latest one if any.
func (h *healthHandlers) stream(w http.ResponseWriter, r *http.Request) {
	up := h.upgrader()
	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	reqID := chimw.GetReqID(r.Context())
	reports, cancel := h.mon.Subscribe()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = ws.SetReadDeadline(time.Now().Add(streamPongWait))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if rep, ok := h.mon.Latest(); ok {
		if err := writeReport(ws, rep); err != nil {
			return
		}
	}

	ping := time.NewTicker(streamPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			h.log.Debug("health stream closed", zap.String("request_id", reqID))
			return
		case <-r.Context().Done():
			return
		case rep := <-reports:
			if err := writeReport(ws, rep); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Debug("health stream write failed", zap.String("request_id", reqID), zap.Error(err))
				}
				return
			}
		case <-ping.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func writeReport(ws *websocket.Conn, rep any) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	_ = ws.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return ws.WriteMessage(websocket.TextMessage, raw)
}
