package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development.
		// In production this should check against allowed origins.
		return true
	},
}

// WebSocketScanRequest is a scan request sent over the socket. Image
// carries the raw encoded image bytes (base64 in the JSON encoding).
type WebSocketScanRequest struct {
	Image    []byte `json:"image"`
	Filename string `json:"filename,omitempty"`
}

// WebSocketScanResponse streams scan progress and the final result.
type WebSocketScanResponse struct {
	Type      string  `json:"type"`
	Status    string  `json:"status"` // "processing", "completed", "error"
	Progress  float64 `json:"progress,omitempty"`
	Result    any     `json:"result,omitempty"`
	Error     string  `json:"error,omitempty"`
	RequestID string  `json:"request_id,omitempty"`
}

// scanWebSocketHandler handles WebSocket connections for streaming
// spine scans.
func (s *Server) scanWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("websocket connection established", "remote_addr", r.RemoteAddr)
	s.handleWebSocketConnection(r.Context(), conn)
}

func (s *Server) handleWebSocketConnection(ctx context.Context, conn *websocket.Conn) {
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Ping to keep the connection alive.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket error", "error", err)
			}
			return
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketScan(ctx, conn, data)
		}
	}
}

func (s *Server) handleWebSocketScan(ctx context.Context, conn *websocket.Conn, data []byte) {
	var req WebSocketScanRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketResponse(conn, WebSocketScanResponse{
			Type:   "scan_response",
			Status: "error",
			Error:  fmt.Sprintf("invalid request: %v", err),
		})
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)
	s.sendWebSocketResponse(conn, WebSocketScanResponse{
		Type:      "scan_response",
		Status:    "processing",
		Progress:  0,
		RequestID: requestID,
	})

	img, _, err := image.Decode(bytes.NewReader(req.Image))
	if err != nil {
		s.sendWebSocketResponse(conn, WebSocketScanResponse{
			Type:      "scan_response",
			Status:    "error",
			Error:     "invalid image format",
			RequestID: requestID,
		})
		return
	}

	res, err := s.pipeline.ProcessSpine(ctx, img)
	if err != nil {
		s.sendWebSocketResponse(conn, WebSocketScanResponse{
			Type:      "scan_response",
			Status:    "error",
			Error:     err.Error(),
			RequestID: requestID,
		})
		return
	}

	s.recordRun(req.Filename, res)
	s.sendWebSocketResponse(conn, WebSocketScanResponse{
		Type:      "scan_response",
		Status:    "completed",
		Progress:  1,
		Result:    res,
		RequestID: requestID,
	})
}

func (s *Server) sendWebSocketResponse(conn *websocket.Conn, resp WebSocketScanResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		slog.Error("encoding websocket response", "error", err)
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		slog.Error("writing websocket response", "error", err)
		return
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
