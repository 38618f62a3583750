package mocks

import (
	"context"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/stretchr/testify/mock"
)

// MockBus is a mock type for the Bus type
type MockBus struct {
	mock.Mock
}

type MockBus_Expecter struct {
	mock *mock.Mock
}

func (_m *MockBus) EXPECT() *MockBus_Expecter {
	return &MockBus_Expecter{mock: &_m.Mock}
}

// Emit provides a mock function with given fields: ctx, event
func (_m *MockBus) Emit(ctx context.Context, event events.Event) error {
	ret := _m.Called(ctx, event)
	if rf, ok := ret.Get(0).(func(context.Context, events.Event) error); ok {
		return rf(ctx, event)
	}
	return ret.Error(0)
}

func (_e *MockBus_Expecter) Emit(ctx, event any) *mock.Call {
	return _e.mock.On("Emit", ctx, event)
}

// Register provides a mock function with given fields: eventType, handler
func (_m *MockBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	_m.Called(eventType, handler)
}

func (_e *MockBus_Expecter) Register(eventType, handler any) *mock.Call {
	return _e.mock.On("Register", eventType, handler)
}

// NewMockBus creates a new instance of MockBus. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockBus(t testingT) *MockBus {
	m := &MockBus{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ eventbus.Bus = (*MockBus)(nil)
