package app

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dailynotes/daily-note-sync-service/pkg/code"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	val "github.com/go-playground/validator/v10"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	WebSocketServerPingInterval = 25
	WebSocketServerPingWait     = 40
)

// WebSocketMessage 解析后的客户端消息，格式为 "Action|{json}"
type WebSocketMessage struct {
	Action string `json:"action"` // 操作类型，例如 "NoteModify", "GroupSync"
	Data   []byte `json:"data"`   // 消息负载
}

// AuthorizationRequest 授权消息负载
// 兼容纯 Token 字符串格式（旧客户端）
type AuthorizationRequest struct {
	Token         string `json:"token"`
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

type WebsocketServerConfig struct {
	GWSOption       gws.ServerOption
	PingInterval    time.Duration
	PingWait        time.Duration
	IsReturnSuccess bool
	TokenManager    TokenManager
	Logger          *zap.Logger
}

// WebsocketClient 存储每个 WebSocket 连接及其相关状态
type WebsocketClient struct {
	conn   *gws.Conn
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	server *WebsocketServer

	Ctx           *gin.Context
	TraceID       string
	ClientName    string
	ClientVersion string
	User          *UserEntity
	UserClients   *ConnStorage
	SF            *singleflight.Group // 用于合并并发请求
}

// Context 返回随连接生命周期取消的 context
// HTTP 升级请求的 context 在连接存续期间可能已失效，不能直接使用
func (c *WebsocketClient) Context() context.Context {
	return c.ctx
}

// BindAndValid 基于全局验证器的 WebSocket 版本参数绑定和验证工具函数
func (c *WebsocketClient) BindAndValid(data []byte, obj any) (bool, ValidErrors) {
	var errs ValidErrors

	if err := sonic.Unmarshal(data, obj); err != nil {
		errs = append(errs, &ValidError{
			Key:     "body",
			Message: "Invalid message format",
		})
		return false, errs
	}

	validate, ok := binding.Validator.Engine().(*val.Validate)
	if !ok {
		return true, nil
	}

	if err := validate.Struct(obj); err != nil {
		if validationErrors, ok := err.(val.ValidationErrors); ok {
			var trans ut.Translator
			if v := c.Ctx.Value("trans"); v != nil {
				trans, _ = v.(ut.Translator)
			}

			for _, validationErr := range validationErrors {
				message := validationErr.Error()
				if trans != nil {
					message = validationErr.Translate(trans)
				}
				errs = append(errs, &ValidError{
					Key:     validationErr.Field(),
					Message: message,
				})
			}
		}
		return false, errs
	}
	return true, nil
}

// PingLoop 定期发送 Ping 消息
func (c *WebsocketClient) PingLoop(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			c.server.log().Debug("websocket client ping loop stopped")
			return
		case <-ticker.C:
			if c.conn == nil {
				return
			}
			if err := c.conn.WritePing(nil); err != nil {
				c.server.log().Error("websocket client ping failed", zap.Error(err))
				return
			}
		}
	}
}

// ToResponse 将结果转换为 JSON 格式并发送给客户端
func (c *WebsocketClient) ToResponse(codeObj *code.Code, action ...string) {

	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessage(),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	if codeObj.HaveDetails() || c.server.config.IsReturnSuccess || actionType != "" || codeObj.Code() > 200 || codeObj.HaveData() {
		c.send(actionType, content, false, false)
	}
	codeObj.Reset()
}

// BroadcastResponse 将结果广播给该用户的所有客户端
// isExcludeSelf 为 true 时不推送给当前连接
func (c *WebsocketClient) BroadcastResponse(codeObj *code.Code, isExcludeSelf bool, action ...string) {

	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessage(),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	c.send(actionType, content, true, isExcludeSelf)
	codeObj.Reset()
}

func (c *WebsocketClient) send(actionType string, content any, isBroadcast bool, isExcludeSelf bool) {
	responseBytes, _ := sonic.Marshal(content)
	if actionType != "" {
		responseBytes = []byte(fmt.Sprintf(`%s|%s`, actionType, string(responseBytes)))
	}
	if isBroadcast {
		c.broadcast(responseBytes, isExcludeSelf)
	} else {
		c.message(responseBytes)
	}
}

func (c *WebsocketClient) message(payload []byte) {
	c.conn.WriteMessage(gws.OpcodeText, payload)
}

func (c *WebsocketClient) broadcast(payload []byte, isExcludeSelf bool) {
	if c.UserClients == nil {
		return
	}

	var b = gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()

	c.server.mu.Lock()
	conns := make([]*gws.Conn, 0, len(*c.UserClients))
	for _, uc := range *c.UserClients {
		if uc.conn == nil {
			continue
		}
		if isExcludeSelf && uc.conn == c.conn {
			continue
		}
		conns = append(conns, uc.conn)
	}
	c.server.mu.Unlock()

	for _, conn := range conns {
		_ = b.Broadcast(conn)
	}
}

// ------------------------------------> WebsocketServer

type ConnStorage = map[*gws.Conn]*WebsocketClient

type WebsocketServer struct {
	handlers          map[string]func(*WebsocketClient, *WebSocketMessage)
	userVerifyHandler func(*WebsocketClient, int64) (string, error)
	clients           ConnStorage
	userClients       map[int64]ConnStorage
	mu                sync.Mutex
	up                *gws.Upgrader
	config            *WebsocketServerConfig
}

func NewWebsocketServer(c WebsocketServerConfig) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	wss := WebsocketServer{
		handlers:    make(map[string]func(*WebsocketClient, *WebSocketMessage)),
		clients:     make(ConnStorage),
		userClients: make(map[int64]ConnStorage),
		config:      &c,
	}
	wss.up = gws.NewUpgrader(&wss, &c.GWSOption)
	return &wss
}

func (w *WebsocketServer) log() *zap.Logger {
	return w.config.Logger
}

// Run 返回用于挂载到 gin 路由的升级处理函数
func (w *WebsocketServer) Run() gin.HandlerFunc {

	return func(c *gin.Context) {

		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.log().Error("websocket upgrade failed", zap.Error(err))
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		client := &WebsocketClient{
			conn:    socket,
			done:    make(chan struct{}),
			ctx:     ctx,
			cancel:  cancel,
			server:  w,
			Ctx:     c,
			TraceID: c.GetString("trace_id"),
			SF:      new(singleflight.Group),
		}
		w.AddClient(client)
		w.log().Debug("websocket client connected", zap.String("traceId", client.TraceID))
		go socket.ReadLoop()
	}
}

// Use 注册消息处理器
func (w *WebsocketServer) Use(action string, handler func(*WebsocketClient, *WebSocketMessage)) {
	w.handlers[action] = handler
}

// UserVerifyUse 注册用户有效性验证钩子，返回用户昵称
func (w *WebsocketServer) UserVerifyUse(handler func(*WebsocketClient, int64) (string, error)) {
	w.userVerifyHandler = handler
}

func (w *WebsocketServer) authorizationFailed(c *WebsocketClient, err error) {
	w.log().Error("websocket authorization failed", zap.Error(err))
	c.ToResponse(code.ErrorInvalidUserAuthToken, "Authorization")
	time.Sleep(2 * time.Second)
	c.conn.WriteClose(1000, []byte("AuthorizationFailed"))
}

// Authorization 处理授权消息
// 负载可以是 JSON（含客户端信息）或纯 Token 字符串
func (w *WebsocketServer) Authorization(c *WebsocketClient, msg *WebSocketMessage) {

	var req AuthorizationRequest
	if err := sonic.Unmarshal(msg.Data, &req); err != nil || req.Token == "" {
		req.Token = string(msg.Data)
	}

	user, err := w.config.TokenManager.Parse(req.Token)
	if err != nil {
		w.authorizationFailed(c, err)
		return
	}

	// 用户有效性强制验证
	nickname := user.Nickname
	if w.userVerifyHandler != nil {
		nickname, err = w.userVerifyHandler(c, user.UID)
		if err != nil {
			w.authorizationFailed(c, err)
			return
		}
	}
	user.Nickname = nickname

	c.User = user
	c.ClientName = req.ClientName
	c.ClientVersion = req.ClientVersion
	w.AddUserClient(c)

	w.mu.Lock()
	userClients := w.userClients[user.UID]
	w.mu.Unlock()

	c.UserClients = &userClients
	c.ToResponse(code.Success, "Authorization")
	w.log().Info("websocket user enters",
		zap.Int64("uid", c.User.UID),
		zap.String("nickname", c.User.Nickname),
		zap.Int("count", len(userClients)))
	go c.PingLoop(w.config.PingInterval)
}

// PushToUser 主动向某用户的所有在线客户端推送消息
// 用于服务端触发的事件，例如提醒到点
func (w *WebsocketServer) PushToUser(uid int64, action string, data any) {
	content := Res{
		Code:    code.Success.Code(),
		Status:  true,
		Message: code.Success.Lang.GetMessage(),
		Data:    data,
	}
	payload, _ := sonic.Marshal(content)
	if action != "" {
		payload = []byte(fmt.Sprintf(`%s|%s`, action, string(payload)))
	}

	w.mu.Lock()
	conns := make([]*gws.Conn, 0, len(w.userClients[uid]))
	for conn := range w.userClients[uid] {
		conns = append(conns, conn)
	}
	w.mu.Unlock()

	if len(conns) == 0 {
		return
	}

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()
	for _, conn := range conns {
		_ = b.Broadcast(conn)
	}
}

// OnlineCount 返回某用户当前的在线连接数
func (w *WebsocketServer) OnlineCount(uid int64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.userClients[uid])
}

func (w *WebsocketServer) GetClient(conn *gws.Conn) *WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clients[conn]
}

func (w *WebsocketServer) AddClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
}

func (w *WebsocketServer) RemoveClient(conn *gws.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.clients, conn)
}

func (w *WebsocketServer) AddUserClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.userClients[c.User.UID] == nil {
		w.userClients[c.User.UID] = make(ConnStorage)
	}
	w.userClients[c.User.UID][c.conn] = c
}

func (w *WebsocketServer) RemoveUserClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.userClients[c.User.UID], c.conn)
	if len(w.userClients[c.User.UID]) == 0 {
		delete(w.userClients, c.User.UID)
	}
}

// CloseAll 关闭所有连接，服务停止时调用
func (w *WebsocketServer) CloseAll() {
	w.mu.Lock()
	conns := make([]*gws.Conn, 0, len(w.clients))
	for conn := range w.clients {
		conns = append(conns, conn)
	}
	w.mu.Unlock()

	for _, conn := range conns {
		conn.WriteClose(1001, []byte("ServerShutdown"))
	}
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	w.log().Debug("websocket client open", zap.Int("count", len(w.clients)))
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {

	c := w.GetClient(conn)

	w.RemoveClient(conn)

	if c == nil {
		return
	}

	c.cancel()
	close(c.done)

	if c.User != nil {
		w.log().Info("websocket user leaves", zap.Int64("uid", c.User.UID))
		w.RemoveUserClient(c)
	}

	w.log().Debug("websocket client leave", zap.Int("count", len(w.clients)))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	if message.Opcode != gws.OpcodeText {
		return
	}
	if message.Data.String() == "close" {
		conn.WriteClose(1000, []byte("ClientClose"))
		return
	}

	c := w.GetClient(conn)
	if c == nil {
		return
	}

	messageStr := message.Data.String()
	index := strings.Index(messageStr, "|")

	var msg WebSocketMessage
	if index != -1 {
		msg.Action = messageStr[:index]
		msg.Data = []byte(messageStr[index+1:])
	} else {
		w.log().Error("websocket illegal message format")
		return
	}

	if msg.Action == "Authorization" {
		w.Authorization(c, &msg)
		return
	}

	// 验证用户是否登录
	if c.User == nil {
		c.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	handler, exists := w.handlers[msg.Action]
	if exists {
		w.log().Debug("websocket message", zap.String("action", msg.Action), zap.Int64("uid", c.User.UID))
		handler(c, &msg)
	} else {
		w.log().Error("websocket unknown message action", zap.String("action", msg.Action))
	}
}
