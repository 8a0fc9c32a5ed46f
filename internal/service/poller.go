package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"packaging_cell/internal/cell"
	"packaging_cell/internal/logger"
	"packaging_cell/internal/models"
)

const DefaultPollInterval = 250 * time.Millisecond

type (
	sensorReader   interface{ Read() cell.SensorPair }
	statusSampler  interface{ Status(ctx context.Context) RobotStatus }
	orderSnapshots interface{ Current() OrderSnapshot }
	viewPublisher  interface{ Publish(v models.CellView) }
)

// PollerService samples sensors, robot and order on every tick, runs the
// decision and verification engines and publishes the derived view.
type PollerService struct {
	sensors   sensorReader
	robot     statusSampler
	orders    orderSnapshots
	publisher viewPublisher
	log       *logger.Logger

	busy    atomic.Bool
	dropped atomic.Uint64
	last    cell.Classification
}

func NewPollerService(sensors sensorReader, robot statusSampler, orders orderSnapshots, publisher viewPublisher, log *logger.Logger) *PollerService {
	if log == nil {
		log = logger.Nop()
	}
	return &PollerService{
		sensors:   sensors,
		robot:     robot,
		orders:    orders,
		publisher: publisher,
		log:       log,
	}
}

// Run ticks at the given interval until ctx is canceled. Each tick runs on
// its own goroutine; a tick that finds the previous one unfinished is
// dropped. Run returns after the in-flight tick, if any, has finished.
func (p *PollerService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultPollInterval
	}
	t := time.NewTicker(tick)
	defer t.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if !p.busy.CompareAndSwap(false, true) {
				p.dropped.Add(1)
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer p.busy.Store(false)
				p.publisher.Publish(p.buildView(ctx, now))
			}()
		}
	}
}

// Tick runs one sample synchronously. It reports false, without sampling,
// when another tick is still in flight.
func (p *PollerService) Tick(ctx context.Context, now time.Time) bool {
	if !p.busy.CompareAndSwap(false, true) {
		p.dropped.Add(1)
		return false
	}
	defer p.busy.Store(false)
	p.publisher.Publish(p.buildView(ctx, now))
	return true
}

// Dropped counts ticks skipped because the previous one was still running.
func (p *PollerService) Dropped() uint64 { return p.dropped.Load() }

func (p *PollerService) buildView(ctx context.Context, now time.Time) models.CellView {
	pair := p.sensors.Read()
	c := pair.Classify()
	st := p.robot.Status(ctx)
	order := p.orders.Current()

	v := models.CellView{
		DI3:            pair.DI3,
		DI7:            pair.DI7,
		Classification: c,
		Step:           cell.PickStep(c),
		RobotConnected: st.Connected,
		RobotState:     st.State,
		RobotMode:      st.Mode,
		ProgramRunning: st.ProgramRunning,
		OrderID:        order.OrderID,
		BagCount:       order.BagCount,
		Verdict:        cell.Verify(c, order.BagCount),
		UpdatedAt:      now.UTC(),
	}
	if order.BagCount != nil {
		v.ExpectedClassification = cell.ExpectedClassification(*order.BagCount)
	}

	if c != p.last {
		p.log.Debugw("classification_changed", "from", p.last, "to", c, "verdict", v.Verdict)
		if v.Verdict == cell.Mismatch {
			p.log.Warnw("classification_mismatch", "order_id", order.OrderID, "classification", c, "expected", v.ExpectedClassification)
		}
		p.last = c
	}
	return v
}
