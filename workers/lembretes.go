package workers

import (
	"context"
	"time"

	"checar/models"
	"checar/queue"
	"checar/repository"
	"checar/tools"

	"github.com/jinzhu/gorm"
	log "github.com/sirupsen/logrus"
)

const lembretesPorCiclo = 50

// LembreteWorker publica lembretes de revisões agendadas que acontecem nas próximas horas.
type LembreteWorker struct {
	revisoes     *repository.RevisaoRepository
	publisher    queue.Publisher
	interval     time.Duration
	antecedencia time.Duration
	now          func() time.Time
}

func NewLembreteWorker(database *gorm.DB, publisher queue.Publisher, interval, antecedencia time.Duration) *LembreteWorker {
	if publisher == nil {
		publisher = queue.LogPublisher{}
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if antecedencia <= 0 {
		antecedencia = 24 * time.Hour
	}
	return &LembreteWorker{
		revisoes:     repository.NewRevisaoRepository(database),
		publisher:    publisher,
		interval:     interval,
		antecedencia: antecedencia,
		now:          time.Now,
	}
}

// Start roda o ciclo até ctx ser cancelado.
func (w *LembreteWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		log.WithFields(log.Fields{"interval": w.interval.String(), "antecedencia": w.antecedencia.String()}).Info("Worker de lembretes iniciado")
		for {
			select {
			case <-ctx.Done():
				log.Info("Worker de lembretes parado")
				return
			case <-ticker.C:
				if _, err := w.ProcessarPendentes(ctx); err != nil {
					log.WithError(err).Error("lembretes: falha no ciclo")
				}
			}
		}
	}()
}

// ProcessarPendentes envia os lembretes devidos e devolve quantos foram publicados.
func (w *LembreteWorker) ProcessarPendentes(ctx context.Context) (int, error) {
	now := w.now()
	pendentes, err := w.revisoes.PendentesDeLembrete(now, now.Add(w.antecedencia), lembretesPorCiclo)
	if err != nil {
		return 0, err
	}

	enviados := 0
	for _, rev := range pendentes {
		if ctx.Err() != nil {
			return enviados, ctx.Err()
		}

		// lock otimista: só processa se conseguir marcar o lembrete
		ok, err := w.revisoes.MarcarLembrete(rev.ID, now)
		if err != nil {
			log.WithError(err).WithField("revisao_id", rev.ID).Warn("lembretes: falha ao marcar")
			continue
		}
		if !ok {
			continue
		}

		event, ok := montarLembrete(rev)
		if !ok {
			// cliente não aceita notificações: fica marcado para não voltar na próxima rodada
			continue
		}

		if err := w.publisher.Publish(ctx, queue.QueueRevisaoLembrete, event); err != nil {
			log.WithError(err).WithField("revisao_id", rev.ID).Warn("lembretes: falha ao publicar, liberando para nova tentativa")
			if err := w.revisoes.LimparLembrete(rev.ID); err != nil {
				log.WithError(err).WithField("revisao_id", rev.ID).Error("lembretes: falha ao liberar")
			}
			continue
		}
		enviados++
		log.WithFields(log.Fields{"revisao_id": rev.ID, "canais": event.Canais}).Info("Lembrete publicado")
	}
	return enviados, nil
}

// montarLembrete escolhe os canais conforme as preferências do cliente.
func montarLembrete(rev models.Revisao) (queue.RevisaoLembreteEvent, bool) {
	cliente := rev.Cliente
	if cliente == nil || cliente.Status != models.ClienteAtivo || !cliente.AceitaNotificacao() {
		return queue.RevisaoLembreteEvent{}, false
	}

	event := queue.RevisaoLembreteEvent{
		RevisaoID:   rev.ID,
		ClienteID:   cliente.ID,
		ClienteNome: cliente.NomeCompleto(),
		DataRevisao: rev.DataRevisao.Format(time.RFC3339),
	}
	if rev.Veiculo != nil {
		event.Placa = rev.Veiculo.Placa
		event.Modelo = rev.Veiculo.Marca + " " + rev.Veiculo.Modelo
	}

	if cliente.NotificarEmail && cliente.Email != "" {
		event.Canais = append(event.Canais, "email")
		event.Email = cliente.Email
	}
	if cliente.NotificarWhatsapp {
		raw := cliente.Whatsapp
		if raw == "" {
			raw = cliente.Telefone
		}
		if to, err := tools.NormalizeWhatsAppTo(raw); err == nil {
			event.Canais = append(event.Canais, "whatsapp")
			event.WhatsApp = to
		}
	}
	if cliente.NotificarSMS {
		if to, err := tools.NormalizeWhatsAppTo(cliente.Telefone); err == nil {
			event.Canais = append(event.Canais, "sms")
			event.Telefone = to
		}
	}
	return event, len(event.Canais) > 0
}
