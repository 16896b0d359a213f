package bus

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"

	"presskit/errors"
	"presskit/eventing"
	"presskit/logging"
)

// JetStreamConfig 配置 NATS JetStream 发布器
type JetStreamConfig struct {
	URL           string
	Stream        string
	SubjectPrefix string

	// Conn 非空时复用外部连接，关闭连接由调用方负责
	Conn *nats.Conn
}

// JetStreamPublisher 基于 NATS JetStream 的事件发布器
//
// 事件按聚合类型路由到主题 <prefix><aggregate_type>，
// 信封以 JSON 形式上线。
type JetStreamPublisher struct {
	cfg      JetStreamConfig
	logger   logging.ILogger
	conn     *nats.Conn
	js       nats.JetStreamContext
	ownsConn bool
	mu       sync.Mutex
}

// NewJetStreamPublisher 创建并连接 JetStream 发布器
func NewJetStreamPublisher(cfg JetStreamConfig) (*JetStreamPublisher, error) {
	if cfg.Stream == "" {
		cfg.Stream = "PRESSKIT"
	}
	if cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "cms.events."
	}
	p := &JetStreamPublisher{
		cfg:    cfg,
		logger: logging.ComponentLogger("bus.natsjetstream"),
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	if err := p.ensureStream(); err != nil {
		p.closeConn()
		return nil, err
	}
	return p, nil
}

// Publish 实现 IEventPublisher 接口
//
// 逐条发布，遇到首个失败即返回；已发布的事件不撤回。
func (p *JetStreamPublisher) Publish(ctx context.Context, events []eventing.IEvent) error {
	for _, evt := range events {
		data, err := json.Marshal(evt)
		if err != nil {
			return errors.WrapError(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
		}
		subject := p.cfg.SubjectPrefix + string(evt.GetAggregateType())
		if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
			p.logger.Error(ctx, "jetstream publish failed",
				logging.String("subject", subject),
				logging.String("event_id", evt.GetID()),
				logging.Error(err))
			return errors.WrapError(err, errors.ErrCodeQueue, "failed to publish event to jetstream")
		}
	}
	return nil
}

// Close 实现 IEventPublisher 接口
func (p *JetStreamPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeConn()
	return nil
}

func (p *JetStreamPublisher) connect() error {
	if p.cfg.Conn != nil {
		p.conn = p.cfg.Conn
	} else {
		url := p.cfg.URL
		if url == "" {
			url = nats.DefaultURL
		}
		conn, err := nats.Connect(url)
		if err != nil {
			return errors.WrapError(err, errors.ErrCodeQueue, "failed to connect to nats")
		}
		p.conn = conn
		p.ownsConn = true
	}
	js, err := p.conn.JetStream()
	if err != nil {
		p.closeConn()
		return errors.WrapError(err, errors.ErrCodeQueue, "failed to open jetstream context")
	}
	p.js = js
	return nil
}

func (p *JetStreamPublisher) ensureStream() error {
	_, err := p.js.StreamInfo(p.cfg.Stream)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, nats.ErrStreamNotFound) && !strings.Contains(err.Error(), "stream not found") {
		return errors.WrapError(err, errors.ErrCodeQueue, "failed to look up jetstream stream")
	}
	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:      p.cfg.Stream,
		Subjects:  []string{p.cfg.SubjectPrefix + ">"},
		Retention: nats.LimitsPolicy,
	})
	if err != nil {
		return errors.WrapError(err, errors.ErrCodeQueue, "failed to create jetstream stream")
	}
	return nil
}

func (p *JetStreamPublisher) closeConn() {
	if p.ownsConn && p.conn != nil {
		p.conn.Close()
	}
	p.conn = nil
	p.js = nil
}

var _ IEventPublisher = (*JetStreamPublisher)(nil)
