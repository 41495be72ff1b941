package mailer

import (
	"school_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// ConsoleMailer 未配置 SendGrid key 时的本地替代，只写日志
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) Send(msg *Message) error {
	logger.Log.Info("email (console mailer)",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.TextBody),
	)
	return nil
}
