package database

import (
	"context"
	"regbot/entity"
	"sort"
	"sync"
	"time"
)

// Memory is a process-local store for local runs and tests.
type Memory struct {
	mu      sync.RWMutex
	records map[entity.Flow]map[int64]*entity.Registration
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[entity.Flow]map[int64]*entity.Registration),
	}
}

func (m *Memory) GetOrCreate(_ context.Context, flow entity.Flow, chatId int64) (*entity.Registration, error) {
	if _, err := tableFor(flow); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	byChat, ok := m.records[flow]
	if !ok {
		byChat = make(map[int64]*entity.Registration)
		m.records[flow] = byChat
	}
	reg, ok := byChat[chatId]
	if !ok {
		reg = entity.NewRegistration(flow, chatId)
		byChat[chatId] = reg
	}
	cp := *reg
	return &cp, nil
}

func (m *Memory) UpdateRegistration(_ context.Context, reg *entity.Registration) error {
	if _, err := tableFor(reg.Flow); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	byChat, ok := m.records[reg.Flow]
	if !ok {
		byChat = make(map[int64]*entity.Registration)
		m.records[reg.Flow] = byChat
	}
	stored, ok := byChat[reg.ChatId]
	if !ok {
		stored = entity.NewRegistration(reg.Flow, reg.ChatId)
		byChat[reg.ChatId] = stored
	}
	createdAt := stored.CreatedAt
	*stored = *reg
	stored.CreatedAt = createdAt
	stored.UpdatedAt = time.Now()
	return nil
}

// SubscribedRegistrations returns subscribed records, newest first.
func (m *Memory) SubscribedRegistrations(_ context.Context, flow entity.Flow) ([]*entity.Registration, error) {
	if _, err := tableFor(flow); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*entity.Registration
	for _, reg := range m.records[flow] {
		if reg.IsSubscribed {
			cp := *reg
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ChatId > list[j].ChatId
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) CountRegistrations(_ context.Context, flow entity.Flow, subscribed bool) (int64, error) {
	if _, err := tableFor(flow); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, reg := range m.records[flow] {
		if reg.IsSubscribed == subscribed {
			count++
		}
	}
	return count, nil
}
