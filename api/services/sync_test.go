package services

import (
	"context"
	"errors"
	"testing"

	"github.com/idcard-hub/idcard-menu-services/db"
	"github.com/idcard-hub/idcard-menu-services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestApplyEvent_UpsertCreatesMissingMenu(t *testing.T) {
	mockDB := new(MockMenuDB)
	svc := newService(mockDB)

	mockDB.On("GetMenu", mock.Anything, "7").Return((*models.Menu)(nil), nil)
	mockDB.On("CreateMenu", mock.Anything, mock.MatchedBy(func(m *models.Menu) bool {
		return m.ID == "7" && m.Title == "Reports"
	})).Return(&models.Menu{ID: "7"}, nil)

	err := svc.ApplyEvent(context.Background(), models.MenuEvent{
		Action: models.MenuEventUpsert,
		MenuID: "7",
		Menu:   &models.Menu{Title: " Reports ", URL: strPtr("/reports")},
	})

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
	mockDB.AssertNotCalled(t, "UpdateMenu", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyEvent_UpsertReplacesExistingMenu(t *testing.T) {
	mockDB := new(MockMenuDB)
	svc := newService(mockDB)

	mockDB.On("GetMenu", mock.Anything, "7").Return(&models.Menu{ID: "7", Title: "Old"}, nil)
	mockDB.On("UpdateMenu", mock.Anything, "7", mock.Anything).Return(&models.Menu{ID: "7"}, nil)

	err := svc.ApplyEvent(context.Background(), models.MenuEvent{
		Action: models.MenuEventUpsert,
		MenuID: "7",
		Menu:   &models.Menu{Title: "Reports", URL: strPtr("/reports")},
	})

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
}

func TestApplyEvent_UpsertValidates(t *testing.T) {
	mockDB := new(MockMenuDB)
	svc := newService(mockDB)

	err := svc.ApplyEvent(context.Background(), models.MenuEvent{
		Action: models.MenuEventUpsert,
		MenuID: "7",
		Menu:   &models.Menu{Title: "Reports", IsCollapsible: true},
	})

	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	mockDB.AssertNotCalled(t, "GetMenu", mock.Anything, mock.Anything)
}

func TestApplyEvent_DeleteMissingIsNoop(t *testing.T) {
	mockDB := new(MockMenuDB)
	svc := newService(mockDB)

	mockDB.On("DeleteMenu", mock.Anything, "7").Return(db.ErrMenuNotFound)

	err := svc.ApplyEvent(context.Background(), models.MenuEvent{Action: models.MenuEventDelete, MenuID: "7"})
	assert.NoError(t, err)
}

func TestApplyEvent_DeleteError(t *testing.T) {
	mockDB := new(MockMenuDB)
	svc := newService(mockDB)

	mockDB.On("DeleteMenu", mock.Anything, "7").Return(errors.New("connection reset"))

	err := svc.ApplyEvent(context.Background(), models.MenuEvent{Action: models.MenuEventDelete, MenuID: "7"})
	assert.Error(t, err)
}

func TestSeed_SkipsExistingAndInvalid(t *testing.T) {
	mockDB := new(MockMenuDB)
	svc := newService(mockDB)

	mockDB.On("GetMenus", mock.Anything).Return([]models.Menu{{ID: "1", Title: "Dashboard", URL: strPtr("/dashboard")}}, nil)
	mockDB.On("CreateMenu", mock.Anything, mock.MatchedBy(func(m *models.Menu) bool {
		return m.Title == "Cards"
	})).Return(&models.Menu{ID: "2"}, nil).Once()

	created, err := svc.Seed(context.Background(), []models.Menu{
		{Title: "dashboard ", URL: strPtr("/dashboard")},
		{Title: "Cards", IsCollapsible: true, SubMenus: []models.SubMenu{{Title: "Issue", URL: "/cards/issue"}}},
		{Title: "Broken", IsCollapsible: true},
		{Title: "CARDS", IsCollapsible: true, SubMenus: []models.SubMenu{{Title: "Issue", URL: "/cards/issue"}}},
	}, false)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	mockDB.AssertExpectations(t)
}

func TestSeed_ResetDeletesExisting(t *testing.T) {
	mockDB := new(MockMenuDB)
	svc := newService(mockDB)

	mockDB.On("GetMenus", mock.Anything).Return([]models.Menu{{ID: "1", Title: "Dashboard"}}, nil)
	mockDB.On("DeleteMenu", mock.Anything, "1").Return(nil).Once()
	mockDB.On("CreateMenu", mock.Anything, mock.Anything).Return(&models.Menu{ID: "3"}, nil).Once()

	created, err := svc.Seed(context.Background(), []models.Menu{
		{Title: "Dashboard", URL: strPtr("/dashboard")},
	}, true)

	require.NoError(t, err)
	assert.Equal(t, 1, created)
	mockDB.AssertExpectations(t)
}
