package bot

import (
	"context"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"ytdl-bot/internal/app/model"
)

// Handler receives decoded updates. One call per update, already running on a
// pool worker.
type Handler interface {
	HandleMessage(ctx context.Context, req *model.JobRequest)
	HandleCommand(ctx context.Context, command, args string, req *model.JobRequest)
	HandleCallback(ctx context.Context, ev *model.CallbackEvent)
}

var knownCommands = map[string]bool{
	"start":    true,
	"help":     true,
	"about":    true,
	"terms":    true,
	"ping":     true,
	"settings": true,
	"vip":      true,
}

// Dispatcher pulls updates from long polling and hands each one to a worker
// drawn from a fixed-size pool. Jobs share no mutable state, so the pool is
// the only concurrency control.
type Dispatcher struct {
	tg      *Telegram
	handler Handler
	workers int
	logger  *zap.Logger
}

func NewDispatcher(tg *Telegram, handler Handler, workers int, logger *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{tg: tg, handler: handler, workers: workers, logger: logger}
}

func (d *Dispatcher) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := d.tg.api.GetUpdatesChan(u)

	d.logger.Info("listening for updates", zap.Int("workers", d.workers))

	sem := make(chan struct{}, d.workers)
	for {
		select {
		case <-ctx.Done():
			d.tg.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			sem <- struct{}{}
			go func(update tgbotapi.Update) {
				defer func() {
					if r := recover(); r != nil {
						d.logger.Error("update handler panicked",
							zap.Any("panic", r),
							zap.ByteString("stack", debug.Stack()))
					}
					<-sem
				}()
				d.dispatch(ctx, update)
			}(update)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		d.handler.HandleCallback(ctx, decodeCallback(update.CallbackQuery))
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil {
			return
		}
		req := &model.JobRequest{
			ChatID:    msg.Chat.ID,
			UserID:    msg.From.ID,
			Username:  msg.From.UserName,
			MessageID: msg.MessageID,
			IsPrivate: msg.Chat.IsPrivate(),
			Text:      msg.Text,
		}
		if msg.IsCommand() && knownCommands[msg.Command()] {
			d.handler.HandleCommand(ctx, msg.Command(), msg.CommandArguments(), req)
			return
		}
		d.handler.HandleMessage(ctx, req)
	}
}

func decodeCallback(cb *tgbotapi.CallbackQuery) *model.CallbackEvent {
	ev := &model.CallbackEvent{
		ID:   cb.ID,
		Data: cb.Data,
	}
	if cb.From != nil {
		ev.UserID = cb.From.ID
	}
	if cb.Message != nil {
		ev.ChatID = cb.Message.Chat.ID
		ev.MessageID = cb.Message.MessageID
		if cb.Message.Video != nil {
			ev.VideoFileID = cb.Message.Video.FileID
			ev.VideoFileName = cb.Message.Video.FileName
		}
	}
	return ev
}
