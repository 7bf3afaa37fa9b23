// Package mocks provides test doubles for the serpapi client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	model "github.com/sells-group/prospect-cli/internal/model"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, businessType, location
func (_m *MockClient) Search(ctx context.Context, businessType string, location string) (*model.SerpResults, error) {
	ret := _m.Called(ctx, businessType, location)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 *model.SerpResults
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) (*model.SerpResults, error)); ok {
		return rf(ctx, businessType, location)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *model.SerpResults); ok {
		r0 = rf(ctx, businessType, location)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*model.SerpResults)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, businessType, location)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
