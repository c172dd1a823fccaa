package core

import (
	"fmt"

	"github.com/dkeye/Pointing/internal/domain"
)

func (r *roomImpl) SetQueue(sid SessionID, titles []string) error {
	if len(titles) > domain.MaxQueueLen {
		return domain.ErrQueueFull
	}
	queue := make([]string, 0, len(titles))
	for _, t := range titles {
		t, err := domain.NormalizeTitle(t)
		if err != nil {
			return err
		}
		queue = append(queue, t)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.controllerLocked(sid); err != nil {
		return err
	}
	r.queue = queue
	r.publishQueueLocked()
	return nil
}

func (r *roomImpl) AddStory(sid SessionID, title string) error {
	title, err := domain.NormalizeTitle(title)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.controllerLocked(sid); err != nil {
		return err
	}
	if len(r.queue) >= domain.MaxQueueLen {
		return domain.ErrQueueFull
	}
	r.queue = append(r.queue, title)
	r.publishQueueLocked()
	return nil
}

func (r *roomImpl) RemoveStory(sid SessionID, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.controllerLocked(sid); err != nil {
		return err
	}
	if index < 0 || index >= len(r.queue) {
		return fmt.Errorf("%w: %d", domain.ErrQueueIndex, index)
	}
	r.queue = append(r.queue[:index], r.queue[index+1:]...)
	r.publishQueueLocked()
	return nil
}

func (r *roomImpl) publishQueueLocked() {
	r.fanout.publish(Event{Type: EventUpdateStoryQueue, Payload: QueuePayload{Queue: append([]string{}, r.queue...)}})
}
