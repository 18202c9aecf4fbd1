package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/BuildPass/site_personnel_app/internal/apperrors"
	"github.com/BuildPass/site_personnel_app/internal/core/domain"
	portsrepo "github.com/BuildPass/site_personnel_app/internal/core/ports/repositories"
	portssvc "github.com/BuildPass/site_personnel_app/internal/core/ports/services"
	"github.com/BuildPass/site_personnel_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock StatusRepository ---
type MockStatusRepository struct {
	mock.Mock
}

// Ensure MockStatusRepository implements portsrepo.StatusRepositoryWithTx
var _ portsrepo.StatusRepositoryWithTx = (*MockStatusRepository)(nil)

func (m *MockStatusRepository) FindStatusByName(ctx context.Context, name string) (*domain.Status, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Status), args.Error(1)
}

func (m *MockStatusRepository) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Status), args.Error(1)
}

func (m *MockStatusRepository) FindActiveByGroup(ctx context.Context, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error) {
	args := m.Called(ctx, employeeID, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusMapping), args.Error(1)
}

func (m *MockStatusRepository) FindAllActive(ctx context.Context, employeeID string) ([]domain.StatusMapping, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StatusMapping), args.Error(1)
}

func (m *MockStatusRepository) FindActiveByEmployeeIDs(ctx context.Context, employeeIDs []string) (map[string][]domain.StatusMapping, error) {
	args := m.Called(ctx, employeeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.StatusMapping), args.Error(1)
}

func (m *MockStatusRepository) LockEmployeeStatuses(ctx context.Context, tx pgx.Tx, employeeID string) error {
	args := m.Called(ctx, tx, employeeID)
	return args.Error(0)
}

func (m *MockStatusRepository) FindActiveByGroupTx(ctx context.Context, tx pgx.Tx, employeeID string, group domain.StatusGroup) (*domain.StatusMapping, error) {
	args := m.Called(ctx, tx, employeeID, group)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusMapping), args.Error(1)
}

func (m *MockStatusRepository) DeactivateGroup(ctx context.Context, tx pgx.Tx, employeeID string, group domain.StatusGroup, exceptStatusID *string, actorID string) error {
	args := m.Called(ctx, tx, employeeID, group, exceptStatusID, actorID)
	return args.Error(0)
}

func (m *MockStatusRepository) DeactivateMapping(ctx context.Context, tx pgx.Tx, mappingID string, actorID string) error {
	args := m.Called(ctx, tx, mappingID, actorID)
	return args.Error(0)
}

func (m *MockStatusRepository) Activate(ctx context.Context, tx pgx.Tx, employeeID string, statusID string, actorID string, upload *bool) (*domain.StatusMapping, error) {
	args := m.Called(ctx, tx, employeeID, statusID, actorID, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StatusMapping), args.Error(1)
}

func (m *MockStatusRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockStatusRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockStatusRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// Pointer matchers for the optional upload argument.
var (
	uploadNil   = mock.MatchedBy(func(u *bool) bool { return u == nil })
	uploadFalse = mock.MatchedBy(func(u *bool) bool { return u != nil && !*u })
	uploadTrue  = mock.MatchedBy(func(u *bool) bool { return u != nil && *u })

	exceptNone = mock.MatchedBy(func(id *string) bool { return id == nil })
)

func exceptID(want string) interface{} {
	return mock.MatchedBy(func(id *string) bool { return id != nil && *id == want })
}

// --- Test Suite Setup ---
type StatusServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockStatusRepository
	service    portssvc.StatusSvcFacade
	employeeID string
	actorID    string
	catalog    map[string]domain.Status
}

func (suite *StatusServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockStatusRepository)
	suite.service = services.NewStatusService(suite.mockRepo)
	suite.employeeID = uuid.NewString()
	suite.actorID = uuid.NewString()

	suite.catalog = make(map[string]domain.Status)
	for name, group := range map[string]domain.StatusGroup{
		domain.StatusDraft:          domain.GroupStatus,
		domain.StatusNew:            domain.GroupStatus,
		domain.StatusCardDraft:      domain.GroupCard,
		domain.StatusCardCompleted:  domain.GroupCard,
		domain.StatusActiveEmployed: domain.GroupActive,
		domain.StatusActiveFired:    domain.GroupActive,
		domain.StatusActiveInactive: domain.GroupActive,
		domain.StatusHRNew:          domain.GroupHR,
		domain.StatusHRNewCompl:     domain.GroupHR,
		domain.StatusHREdited:       domain.GroupHR,
		domain.StatusHRFiredOff:     domain.GroupHR,
		domain.StatusHRFiredCompl:   domain.GroupHR,
		domain.StatusSecureAllow:    domain.GroupSecure,
		domain.StatusSecureBlock:    domain.GroupSecure,
	} {
		suite.catalog[name] = domain.Status{StatusID: "st-" + name, Name: name, Group: group}
	}
}

// expectCatalog wires FindStatusByName against the seeded catalog.
func (suite *StatusServiceTestSuite) expectCatalog() {
	for name := range suite.catalog {
		status := suite.catalog[name]
		suite.mockRepo.On("FindStatusByName", mock.Anything, name).Return(&status, nil).Maybe()
	}
}

// expectTx wires the Begin/Lock/Commit/Rollback bracket around a transition.
func (suite *StatusServiceTestSuite) expectTx() {
	suite.mockRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRepo.On("LockEmployeeStatuses", mock.Anything, mock.Anything, suite.employeeID).Return(nil).Once()
	suite.mockRepo.On("Commit", mock.Anything, mock.Anything).Return(nil).Once()
	suite.mockRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (suite *StatusServiceTestSuite) mapping(name string, active, upload bool) *domain.StatusMapping {
	status := suite.catalog[name]
	return &domain.StatusMapping{
		MappingID:  "map-" + name,
		EmployeeID: suite.employeeID,
		StatusID:   status.StatusID,
		StatusName: name,
		Group:      status.Group,
		IsActive:   active,
		IsUpload:   upload,
	}
}

func (suite *StatusServiceTestSuite) statusID(name string) string {
	return suite.catalog[name].StatusID
}

// --- Initialization ---

func (suite *StatusServiceTestSuite) TestInitializeStatuses_SeedsDefaults() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	for _, name := range []string{
		domain.StatusDraft,
		domain.StatusCardDraft,
		domain.StatusActiveEmployed,
		domain.StatusSecureAllow,
	} {
		status := suite.catalog[name]
		suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, status.Group, exceptID(status.StatusID), suite.actorID).Return(nil).Once()
		suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, status.StatusID, suite.actorID, uploadNil).Return(suite.mapping(name, true, false), nil).Once()
	}

	err := suite.service.InitializeStatuses(ctx, suite.employeeID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Batch reads ---

func (suite *StatusServiceTestSuite) TestGetBatch_ChunksAndDegrades() {
	ctx := context.Background()

	ids := make([]string, 501)
	for i := range ids {
		ids[i] = fmt.Sprintf("emp-%03d", i)
	}

	// First chunk of 500 fails; its members come back with no statuses.
	suite.mockRepo.On("FindActiveByEmployeeIDs", ctx, mock.MatchedBy(func(chunk []string) bool {
		return len(chunk) == 500
	})).Return(nil, errors.New("query canceled")).Once()

	lastID := ids[500]
	suite.mockRepo.On("FindActiveByEmployeeIDs", ctx, []string{lastID}).Return(map[string][]domain.StatusMapping{
		lastID: {*suite.mapping(domain.StatusNew, true, false)},
	}, nil).Once()

	result, err := suite.service.GetBatch(ctx, ids)

	suite.Require().NoError(err)
	suite.Len(result, 1)
	suite.Len(result[lastID], 1)
	suite.Empty(result[ids[0]])
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestGetBatch_EmptyInput() {
	result, err := suite.service.GetBatch(context.Background(), nil)

	suite.Require().NoError(err)
	suite.Empty(result)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindActiveByEmployeeIDs", mock.Anything, mock.Anything)
}

// --- Completeness recompute ---

func (suite *StatusServiceTestSuite) TestRecomputeOnEdit_PromotesDraftsWhenComplete() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	employee := domain.Employee{EmployeeID: suite.employeeID, LastName: "Smith", FirstName: "Anna"}
	cfg := domain.FieldConfig{} // nothing required: record counts as complete

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupStatus).
		Return(suite.mapping(domain.StatusDraft, true, false), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupStatus, exceptID(suite.statusID(domain.StatusNew)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusNew), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusNew, true, false), nil).Once()

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupCard).
		Return(suite.mapping(domain.StatusCardDraft, true, false), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupCard, exceptID(suite.statusID(domain.StatusCardCompleted)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusCardCompleted), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusCardCompleted, true, false), nil).Once()

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RecomputeOnEdit(ctx, employee, cfg, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestRecomputeOnEdit_AlreadyPromotedStaysPut() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	employee := domain.Employee{EmployeeID: suite.employeeID, LastName: "Smith", FirstName: "Anna"}
	cfg := domain.FieldConfig{}

	// Both groups already past their draft state: nothing to promote.
	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupStatus).
		Return(suite.mapping(domain.StatusNew, true, false), nil).Once()
	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupCard).
		Return(suite.mapping(domain.StatusCardCompleted, true, false), nil).Once()
	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RecomputeOnEdit(ctx, employee, cfg, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatusServiceTestSuite) TestRecomputeOnEdit_IncompleteKeepsDrafts() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	employee := domain.Employee{EmployeeID: suite.employeeID, FirstName: "Anna"} // last name missing
	cfg := domain.FieldConfig{
		domain.FieldLastName: {Visible: true, Required: true},
	}

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.RecomputeOnEdit(ctx, employee, cfg, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupStatus)
	suite.mockRepo.AssertNotCalled(suite.T(), "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatusServiceTestSuite) TestRecomputeOnEdit_PendingUploadSupersedesHRGroup() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	employee := domain.Employee{EmployeeID: suite.employeeID, FirstName: "Anna"}
	cfg := domain.FieldConfig{
		domain.FieldLastName: {Visible: true, Required: true},
	}

	// A prior HR status still pending sync wins over the new-complete rule.
	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(suite.mapping(domain.StatusHRNewCompl, true, true), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR, exceptNone, suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusHREdited), suite.actorID, uploadFalse).
		Return(suite.mapping(domain.StatusHREdited, true, false), nil).Once()

	err := suite.service.RecomputeOnEdit(ctx, employee, cfg, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestRecomputeOnEdit_SyncedNewComplBecomesEdited() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	employee := domain.Employee{EmployeeID: suite.employeeID, FirstName: "Anna"}
	cfg := domain.FieldConfig{
		domain.FieldLastName: {Visible: true, Required: true},
	}

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(suite.mapping(domain.StatusHRNewCompl, true, false), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR, exceptID(suite.statusID(domain.StatusHREdited)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusHREdited), suite.actorID, uploadFalse).
		Return(suite.mapping(domain.StatusHREdited, true, false), nil).Once()

	err := suite.service.RecomputeOnEdit(ctx, employee, cfg, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Firing and reinstating ---

func (suite *StatusServiceTestSuite) TestFire() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR, exceptNone, suite.actorID).Return(nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveFired)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveFired), suite.actorID, uploadFalse).
		Return(suite.mapping(domain.StatusActiveFired, true, false), nil).Once()

	err := suite.service.Fire(ctx, suite.employeeID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestReinstate_FiredEmployeeReturnsToEmployed() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	firedOffID := suite.statusID(domain.StatusHRFiredOff)
	firedMapping := suite.mapping(domain.StatusActiveFired, true, false)

	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR, exceptID(firedOffID), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, firedOffID, suite.actorID, uploadFalse).
		Return(suite.mapping(domain.StatusHRFiredOff, true, false), nil).Once()
	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive).
		Return(firedMapping, nil).Once()
	suite.mockRepo.On("DeactivateMapping", mock.Anything, mock.Anything, firedMapping.MappingID, suite.actorID).Return(nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveEmployed)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveEmployed), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusActiveEmployed, true, false), nil).Once()

	err := suite.service.Reinstate(ctx, suite.employeeID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestReinstate_MissingCatalogStatusIsConfigError() {
	ctx := context.Background()

	suite.mockRepo.On("FindStatusByName", ctx, domain.StatusHRFiredOff).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.Reinstate(ctx, suite.employeeID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConfiguration)
	suite.mockRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- Activity group ---

func (suite *StatusServiceTestSuite) TestActivate_AlreadyEmployedClearsUploadFlag() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	// An employed row carrying a stale upload flag is deactivated and
	// reactivated, which drops the flag.
	employed := suite.mapping(domain.StatusActiveEmployed, true, true)

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive).
		Return(employed, nil).Once()
	suite.mockRepo.On("DeactivateMapping", mock.Anything, mock.Anything, employed.MappingID, suite.actorID).Return(nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveEmployed)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveEmployed), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusActiveEmployed, true, false), nil).Once()

	err := suite.service.Activate(ctx, suite.employeeID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestActivate_FromInactive() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	inactive := suite.mapping(domain.StatusActiveInactive, true, false)

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive).
		Return(inactive, nil).Once()
	suite.mockRepo.On("DeactivateMapping", mock.Anything, mock.Anything, inactive.MappingID, suite.actorID).Return(nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveEmployed)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveEmployed), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusActiveEmployed, true, false), nil).Once()

	err := suite.service.Activate(ctx, suite.employeeID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestDeactivate() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveInactive)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveInactive), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusActiveInactive, true, false), nil).Once()

	err := suite.service.Deactivate(ctx, suite.employeeID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Flag reconciliation ---

func (suite *StatusServiceTestSuite) TestSyncActiveFlags_FiredFlag() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR, exceptNone, suite.actorID).Return(nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveFired)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveFired), suite.actorID, uploadFalse).
		Return(suite.mapping(domain.StatusActiveFired, true, false), nil).Once()

	err := suite.service.SyncActiveFlags(ctx, suite.employeeID, true, false, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestSyncActiveFlags_InactiveFlag() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveInactive)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveInactive), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusActiveInactive, true, false), nil).Once()

	err := suite.service.SyncActiveFlags(ctx, suite.employeeID, false, true, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestSyncActiveFlags_FiredUndoCompound() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	firedMapping := suite.mapping(domain.StatusActiveFired, true, true) // still pending export
	editedMapping := suite.mapping(domain.StatusHREdited, true, false)

	var order []string
	record := func(step string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, step) }
	}

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive).
		Return(firedMapping, nil).Once()
	suite.mockRepo.On("DeactivateMapping", mock.Anything, mock.Anything, firedMapping.MappingID, suite.actorID).
		Run(record("retire-fired")).Return(nil).Once()
	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(editedMapping, nil).Once()
	suite.mockRepo.On("DeactivateMapping", mock.Anything, mock.Anything, editedMapping.MappingID, suite.actorID).
		Run(record("retire-edited")).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusHRFiredOff), suite.actorID, uploadFalse).
		Run(record("fired-off")).Return(suite.mapping(domain.StatusHRFiredOff, true, false), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveEmployed)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveEmployed), suite.actorID, uploadNil).
		Run(record("employed")).Return(suite.mapping(domain.StatusActiveEmployed, true, false), nil).Once()

	err := suite.service.SyncActiveFlags(ctx, suite.employeeID, false, false, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal([]string{"retire-fired", "retire-edited", "fired-off", "employed"}, order)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestSyncActiveFlags_SyncedFiredActivatesPlainly() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	// Fired but already exported: un-firing is an ordinary activation, the
	// retroactive-reinstatement sequence does not apply.
	firedMapping := suite.mapping(domain.StatusActiveFired, true, false)

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive).
		Return(firedMapping, nil).Twice()
	suite.mockRepo.On("DeactivateMapping", mock.Anything, mock.Anything, firedMapping.MappingID, suite.actorID).Return(nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveEmployed)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveEmployed), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusActiveEmployed, true, false), nil).Once()

	err := suite.service.SyncActiveFlags(ctx, suite.employeeID, false, false, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusHRFiredOff), mock.Anything, mock.Anything)
}

// --- Combined edit path ---

func (suite *StatusServiceTestSuite) TestApplyEdit_OneTransactionForRecomputeAndFlags() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	employee := domain.Employee{EmployeeID: suite.employeeID, LastName: "Smith", FirstName: "Anna"}
	cfg := domain.FieldConfig{} // nothing required: record counts as complete

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupStatus).
		Return(suite.mapping(domain.StatusDraft, true, false), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupStatus, exceptID(suite.statusID(domain.StatusNew)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusNew), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusNew, true, false), nil).Once()

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupCard).
		Return(suite.mapping(domain.StatusCardDraft, true, false), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupCard, exceptID(suite.statusID(domain.StatusCardCompleted)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusCardCompleted), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusCardCompleted, true, false), nil).Once()

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(nil, apperrors.ErrNotFound).Once()

	// Fired flag set: the reconciliation half runs in the same bracket.
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR, exceptNone, suite.actorID).Return(nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupActive, exceptID(suite.statusID(domain.StatusActiveFired)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusActiveFired), suite.actorID, uploadFalse).
		Return(suite.mapping(domain.StatusActiveFired, true, false), nil).Once()

	err := suite.service.ApplyEdit(ctx, employee, cfg, true, false, suite.actorID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
	// Promotions and flag reconciliation commit or roll back as one unit.
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "Begin", 1)
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "Commit", 1)
}

func (suite *StatusServiceTestSuite) TestApplyEdit_FlagSyncFailureAbortsPromotions() {
	ctx := context.Background()
	suite.expectCatalog()

	suite.mockRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRepo.On("LockEmployeeStatuses", mock.Anything, mock.Anything, suite.employeeID).Return(nil).Once()
	suite.mockRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	employee := domain.Employee{EmployeeID: suite.employeeID, LastName: "Smith", FirstName: "Anna"}
	cfg := domain.FieldConfig{}

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupStatus).
		Return(suite.mapping(domain.StatusDraft, true, false), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupStatus, exceptID(suite.statusID(domain.StatusNew)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusNew), suite.actorID, uploadNil).
		Return(suite.mapping(domain.StatusNew, true, false), nil).Once()

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupCard).
		Return(suite.mapping(domain.StatusCardCompleted, true, false), nil).Once()
	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(nil, apperrors.ErrNotFound).Once()

	// The reconciliation half fails after the promotion already ran.
	writeErr := errors.New("connection reset")
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR, exceptNone, suite.actorID).Return(writeErr).Once()

	err := suite.service.ApplyEdit(ctx, employee, cfg, true, false, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, writeErr)
	// No commit: the already-applied promotion rolls back with the failure.
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

// --- Edit marking ---

func (suite *StatusServiceTestSuite) TestMarkEdited_SetsUploadFlag() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(suite.mapping(domain.StatusHRNewCompl, true, false), nil).Once()
	suite.mockRepo.On("DeactivateGroup", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR, exceptID(suite.statusID(domain.StatusHREdited)), suite.actorID).Return(nil).Once()
	suite.mockRepo.On("Activate", mock.Anything, mock.Anything, suite.employeeID, suite.statusID(domain.StatusHREdited), suite.actorID, uploadTrue).
		Return(suite.mapping(domain.StatusHREdited, true, true), nil).Once()

	err := suite.service.MarkEdited(ctx, suite.employeeID, suite.actorID, true)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatusServiceTestSuite) TestMarkEdited_SkipsReinstatedEmployee() {
	ctx := context.Background()
	suite.expectCatalog()
	suite.expectTx()

	suite.mockRepo.On("FindActiveByGroupTx", mock.Anything, mock.Anything, suite.employeeID, domain.GroupHR).
		Return(suite.mapping(domain.StatusHRFiredOff, true, false), nil).Once()

	err := suite.service.MarkEdited(ctx, suite.employeeID, suite.actorID, true)

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "Activate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Transaction bracket ---

func (suite *StatusServiceTestSuite) TestTransition_LockFailureRollsBack() {
	ctx := context.Background()

	lockErr := errors.New("lock timeout")
	suite.mockRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRepo.On("LockEmployeeStatuses", mock.Anything, mock.Anything, suite.employeeID).Return(lockErr).Once()
	suite.mockRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.service.Deactivate(ctx, suite.employeeID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, lockErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *StatusServiceTestSuite) TestTransition_MissingCatalogStatusAbortsWithoutCommit() {
	ctx := context.Background()

	suite.mockRepo.On("Begin", mock.Anything).Return(nil, nil).Once()
	suite.mockRepo.On("LockEmployeeStatuses", mock.Anything, mock.Anything, suite.employeeID).Return(nil).Once()
	suite.mockRepo.On("FindStatusByName", mock.Anything, domain.StatusActiveInactive).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil).Once()

	err := suite.service.Deactivate(ctx, suite.employeeID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConfiguration)
	suite.mockRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestStatusService(t *testing.T) {
	suite.Run(t, new(StatusServiceTestSuite))
}
