package mocks

import (
	"context"

	"prompt-server/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockAIClient is a mock type for the AIClient type
type MockAIClient struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, req
func (_m *MockAIClient) GenerateText(ctx context.Context, req service.GenerationRequest) (service.GenerationResult, error) {
	ret := _m.Called(ctx, req)

	var r0 service.GenerationResult
	if rf, ok := ret.Get(0).(func(context.Context, service.GenerationRequest) service.GenerationResult); ok {
		r0 = rf(ctx, req)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(service.GenerationResult)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, service.GenerationRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockAIClient creates a new instance of MockAIClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockAIClient(t interface {
	mock.TestingT
	Cleanup(func())
	Helper()
}) *MockAIClient {
	m := &MockAIClient{}
	m.Mock.Test(t)
	t.Helper()
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ service.AIClient = (*MockAIClient)(nil)
