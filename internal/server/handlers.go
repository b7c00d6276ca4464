// Package server exposes HTTP handlers, including WebSocket upgrades, the
// health check, and the built-in chat test page.
package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Router holds the handler dependencies: the hub, the effective config, and
// the upgrader with its origin policy.
type Router struct {
	hub      *Hub
	cfg      Config
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewRouter wires the HTTP surface around a running hub.
func NewRouter(hub *Hub, cfg Config, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	cfg = sanitizeConfig(cfg)
	origins := newOriginChecker(cfg.AllowedOrigins, log)

	return &Router{
		hub: hub,
		cfg: cfg,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.check,
		},
	}
}

// WebSocketHandler upgrades the HTTP connection and hands the new client to
// the hub, which assigns its name and starts the pumps.
func (rt *Router) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := rt.upgrader.Upgrade(w, r, nil)
	if err != nil {
		rt.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	rt.hub.Connect(NewClient(conn, rt.hub, r.RemoteAddr))
}

// HealthHandler provides a simple health check endpoint that returns server status.
func (rt *Router) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Salachat server is running!")
}

// TestPageHandler serves an HTML page exercising the full event vocabulary:
// joining a room, live mention suggestions while typing, and highlighted
// chat messages.
func (rt *Router) TestPageHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if _, err := fmt.Fprint(w, testPageHTML); err != nil {
		rt.log.Warn("error writing HTML response", zap.Error(err))
	}
}

const testPageHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Salachat Test</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; max-width: 700px; }
        #messages {
            border: 1px solid #ccc;
            height: 300px;
            padding: 10px;
            overflow-y: scroll;
            margin: 10px 0;
            background-color: #f9f9f9;
        }
        #suggestions { color: #007cba; min-height: 1.2em; font-size: 0.9em; }
        input[type="text"] { padding: 5px; margin-right: 10px; }
        #messageInput { width: 300px; }
        button {
            padding: 5px 15px;
            background-color: #007cba;
            color: white;
            border: none;
            cursor: pointer;
        }
        button:hover { background-color: #005a87; }
        .system { color: gray; font-style: italic; }
        .me { color: #005a87; font-weight: bold; }
    </style>
</head>
<body>
    <h1>Salachat</h1>
    <div>You are: <span id="myName">(connecting...)</span></div>
    <div>
        <input type="text" id="roomInput" placeholder="Room name" value="lobby">
        <button onclick="joinRoom()">Join</button>
    </div>
    <div id="messages"></div>
    <div id="suggestions"></div>
    <div>
        <input type="text" id="messageInput" placeholder="Type a message, use @ to mention...">
        <button onclick="sendMessage()">Send</button>
    </div>

    <script>
        let room = null;
        const messagesDiv = document.getElementById('messages');
        const suggestionsDiv = document.getElementById('suggestions');
        const messageInput = document.getElementById('messageInput');

        const ws = new WebSocket('ws://' + location.host + '/ws');

        function addLine(html, cls) {
            const el = document.createElement('div');
            if (cls) el.className = cls;
            el.innerHTML = html;
            messagesDiv.appendChild(el);
            messagesDiv.scrollTop = messagesDiv.scrollHeight;
        }

        ws.onmessage = function(e) {
            const ev = JSON.parse(e.data);
            switch (ev.event) {
                case 'assignName':
                    document.getElementById('myName').textContent = ev.name;
                    break;
                case 'systemMessage':
                    addLine('[' + ev.room + '] ' + ev.text, 'system');
                    break;
                case 'mentionSuggestions':
                    suggestionsDiv.textContent = ev.suggestions.length
                        ? 'Mention: ' + ev.suggestions.join(', ') : '';
                    break;
                case 'chatMessage':
                    addLine('[' + ev.room + '] <span class="me">' + ev.sender + ':</span> ' + ev.message);
                    break;
            }
        };

        function joinRoom() {
            room = document.getElementById('roomInput').value.trim();
            ws.send(JSON.stringify({event: 'joinRoom', room: room}));
        }

        function sendMessage() {
            const message = messageInput.value.trim();
            if (!message || !room) return;
            ws.send(JSON.stringify({event: 'chatMessage', room: room, message: message}));
            messageInput.value = '';
            suggestionsDiv.textContent = '';
        }

        messageInput.addEventListener('input', function() {
            if (messageInput.value) {
                ws.send(JSON.stringify({event: 'typing', text: messageInput.value}));
            } else {
                suggestionsDiv.textContent = '';
            }
        });

        messageInput.addEventListener('keypress', function(e) {
            if (e.key === 'Enter') sendMessage();
        });
    </script>
</body>
</html>`
