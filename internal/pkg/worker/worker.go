package worker

import (
	"time"

	"ba_api/internal/pkg/mailer"
	"ba_api/pkg/logger"

	"go.uber.org/zap"
)

// MailTask 异步邮件任务
type MailTask struct {
	Email mailer.Email
	Retry int // 重试次数
}

// MailPool 邮件发送协程池
// 联系我们等非关键通知走异步队列，避免 SMTP 延迟拖慢请求
type MailPool struct {
	TaskQueue  chan MailTask
	RetryQueue chan MailTask
	Mailer     mailer.Mailer
	WorkerNum  int
	MaxRetry   int
}

func NewMailPool(m mailer.Mailer, workerNum int, bufferSize int) *MailPool {
	return &MailPool{
		TaskQueue:  make(chan MailTask, bufferSize),
		RetryQueue: make(chan MailTask, bufferSize/2),
		Mailer:     m,
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
	}
}

func (p *MailPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	logger.Log.Info("mail pool started", zap.Int("workers", p.WorkerNum))
}

func (p *MailPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.Mailer.Send(task.Email); err != nil {
			logger.Log.Warn("mail send failed",
				zap.Int("worker", id),
				zap.String("to", task.Email.To),
				zap.Int("retry", task.Retry),
				zap.Error(err),
			)

			// 如果未达到最大重试次数，加入重试队列
			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
				default:
					p.logFailedTask(task, err)
				}
			} else {
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *MailPool) retryWorker() {
	for task := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		// 重新加入主队列
		select {
		case p.TaskQueue <- task:
		default:
			p.logFailedTask(task, nil)
		}
	}
}

func (p *MailPool) logFailedTask(task MailTask, err error) {
	// 邮件最终失败只记录日志，通知类邮件允许丢失
	logger.Log.Error("mail dropped permanently",
		zap.String("to", task.Email.To),
		zap.String("subject", task.Email.Subject),
		zap.Error(err),
	)
}

// AddTask 任务入队，队列满时直接丢弃并记录
func (p *MailPool) AddTask(task MailTask) {
	select {
	case p.TaskQueue <- task:
	default:
		p.logFailedTask(task, nil)
	}
}
