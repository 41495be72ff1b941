package mailer

// Message 一封待发送的邮件
type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	TextBody  string
	HTMLBody  string
}

// Mailer 邮件发送服务。周报批量发送时单封失败只记录不终止。
type Mailer interface {
	Send(msg *Message) error
}
