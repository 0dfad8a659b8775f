package service

import (
	"context"
	"errors"
	"sync"

	"local-chat-go/internal/model"
	"local-chat-go/internal/repository"
	"local-chat-go/pkg/events"
)

type fakeBackend struct {
	name, addr string
	reply      string
	err        error
	models     []string
	modelsErr  error

	mu    sync.Mutex
	calls []string
}

func (f *fakeBackend) Name() string    { return f.name }
func (f *fakeBackend) Address() string { return f.addr }

func (f *fakeBackend) Generate(_ context.Context, modelName, prompt string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, modelName+":"+prompt)
	f.mu.Unlock()
	return f.reply, f.err
}

func (f *fakeBackend) ListModels(context.Context) ([]string, error) {
	return f.models, f.modelsErr
}

// flakyRepo 在第 failOn 次 AppendMessage 时返回错误。
type flakyRepo struct {
	repository.ChatRepository
	appends int
	failOn  int
	listErr error
}

var errDisk = errors.New("disk full")

func (r *flakyRepo) AppendMessage(ctx context.Context, content string, sender model.Sender, m *string, mode *model.Mode) (*model.ChatMessage, error) {
	r.appends++
	if r.appends == r.failOn {
		return nil, errDisk
	}
	return r.ChatRepository.AppendMessage(ctx, content, sender, m, mode)
}

func (r *flakyRepo) ListMessages(ctx context.Context) ([]model.ChatMessage, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.ChatRepository.ListMessages(ctx)
}

type recordingPublisher struct {
	events []events.TurnCompleted
	err    error
}

func (p *recordingPublisher) PublishTurn(_ context.Context, e events.TurnCompleted) error {
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
