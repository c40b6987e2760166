package processors

import (
	"context"
	"fmt"
	"francoggm/coffeekiosk-mpesa/internal/models"
)

type CallbackHandler interface {
	Handle(ctx context.Context, event *models.CallbackEvent) error
}

type CallbackProcessor struct {
	handler CallbackHandler
}

func NewCallbackProcessor(handler CallbackHandler) *CallbackProcessor {
	return &CallbackProcessor{
		handler: handler,
	}
}

func (p *CallbackProcessor) ProcessEvent(ctx context.Context, event any) error {
	callbackEvent, ok := event.(*models.CallbackEvent)
	if !ok {
		return fmt.Errorf("unexpected callback event type %T", event)
	}

	return p.handler.Handle(ctx, callbackEvent)
}
