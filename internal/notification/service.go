package notification

import (
	"fmt"

	"github.com/guonaihong/gout"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/pawsworks/petshop/internal/app"
	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/order"
	"github.com/pawsworks/petshop/internal/portal"
)

// Service sends email and webhook notifications for storefront and order
// events. Delivery failures are logged and never surface to the caller.
type Service struct {
	appCtx app.AppContext
	pool   *ants.Pool
}

func NewService(appCtx app.AppContext) *Service {
	pool, err := ants.NewPool(4)
	if err != nil {
		panic(err)
	}
	return &Service{appCtx: appCtx, pool: pool}
}

// Setup subscribes the notifier to the event bus topics
func (s *Service) Setup() error {
	bus := s.appCtx.Bus()
	if err := bus.SubscribeAsync(order.TopicOrderStatusChanged, s.onOrderStatusChanged, false); err != nil {
		return err
	}
	if err := bus.SubscribeAsync(portal.TopicInquiryCreated, s.onInquiryCreated, false); err != nil {
		return err
	}
	if err := bus.SubscribeAsync(portal.TopicAppointmentCreated, s.onAppointmentCreated, false); err != nil {
		return err
	}
	return nil
}

// Release stops the delivery pool
func (s *Service) Release() {
	s.pool.Release()
}

func (s *Service) onOrderStatusChanged(evt order.StatusChange) {
	s.postWebhook(evt)

	if !s.appCtx.GetSettingsBoolValue("notify", "OrderStatusEmail") {
		return
	}
	subject := fmt.Sprintf("Order %s is now %s", evt.OrderNo, evt.To)
	body := fmt.Sprintf("Order %s changed from %s to %s.\r\nOrder total: %.2f\r\n",
		evt.OrderNo, evt.From, evt.To, evt.Amount)
	s.send(subject, body)
}

func (s *Service) onInquiryCreated(inq domain.Inquiry) {
	if !s.appCtx.GetSettingsBoolValue("notify", "InquiryEmail") {
		return
	}
	subject := fmt.Sprintf("New inquiry from %s", inq.Name)
	body := fmt.Sprintf("From: %s <%s>\r\nPhone: %s\r\n\r\n%s\r\n",
		inq.Name, inq.Email, inq.Phone, inq.Message)
	s.send(subject, body)
}

func (s *Service) onAppointmentCreated(appt domain.Appointment) {
	if !s.appCtx.GetSettingsBoolValue("notify", "AppointmentEmail") {
		return
	}
	subject := fmt.Sprintf("New appointment request from %s", appt.Name)
	body := fmt.Sprintf("From: %s <%s>\r\nService: %s\r\nScheduled: %s\r\n\r\n%s\r\n",
		appt.Name, appt.Email, appt.ServiceType,
		appt.ScheduledAt.Format("2006-01-02 15:04"), appt.Notes)
	s.send(subject, body)
}

// postWebhook delivers the status change to the configured webhook endpoint
func (s *Service) postWebhook(evt order.StatusChange) {
	url := s.appCtx.GetSettingsStringValue("notify", "WebhookUrl")
	if url == "" {
		return
	}
	if err := s.pool.Submit(func() {
		if err := gout.POST(url).SetJSON(evt).Do(); err != nil {
			zap.L().Error("failed to deliver webhook",
				zap.String("url", url), zap.String("order_no", evt.OrderNo), zap.Error(err))
		}
	}); err != nil {
		zap.L().Error("failed to queue webhook delivery", zap.Error(err))
	}
}

func (s *Service) send(subject, body string) {
	smtp := s.appCtx.Config().Smtp
	if smtp.Host == "" || smtp.NotifyTo == "" {
		zap.L().Debug("smtp not configured, skipping notification", zap.String("subject", subject))
		return
	}

	if err := s.pool.Submit(func() {
		msg := gomail.NewMessage()
		msg.SetHeader("From", smtp.From)
		msg.SetHeader("To", smtp.NotifyTo)
		msg.SetHeader("Subject", subject)
		msg.SetBody("text/plain", body)

		dialer := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
		if err := dialer.DialAndSend(msg); err != nil {
			zap.L().Error("failed to send notification email",
				zap.String("subject", subject), zap.Error(err))
			return
		}
		zap.L().Info("notification email sent", zap.String("subject", subject))
	}); err != nil {
		zap.L().Error("failed to queue notification email", zap.Error(err))
	}
}
