package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ridhambansal/office-booking/internal/clients/authapi"
	"github.com/ridhambansal/office-booking/internal/clients/bookings"
	"github.com/ridhambansal/office-booking/internal/entity"
	"github.com/ridhambansal/office-booking/internal/service"
	"github.com/ridhambansal/office-booking/internal/session"
	"github.com/ridhambansal/office-booking/pkg/config"
)

var (
	employee = entity.User{ID: 7, FirstName: "Riya", Email: "riya@corp.test", AccessLevel: entity.AccessEmployee}
	manager  = entity.User{ID: 8, FirstName: "Sam", Email: "sam@corp.test", AccessLevel: entity.AccessManager}
)

type fakeAuth struct {
	user  entity.User
	token string
	err   error
}

func (f *fakeAuth) Register(context.Context, authapi.RegisterRequest) (entity.User, string, error) {
	return f.user, f.token, f.err
}

func (f *fakeAuth) Login(context.Context, string, string) (entity.User, string, error) {
	return f.user, f.token, f.err
}

type fakeDirectory struct {
	rooms  []entity.Room
	floors []entity.Floor
	seats  []entity.Seat
	cafes  []entity.Cafe
	users  []entity.User
}

func (f *fakeDirectory) Rooms(context.Context) ([]entity.Room, error)   { return f.rooms, nil }
func (f *fakeDirectory) Floors(context.Context) ([]entity.Floor, error) { return f.floors, nil }
func (f *fakeDirectory) Cafes(context.Context) ([]entity.Cafe, error)   { return f.cafes, nil }
func (f *fakeDirectory) Users(context.Context) ([]entity.User, error)   { return f.users, nil }

func (f *fakeDirectory) AvailableSeats(_ context.Context, floor int) ([]entity.Seat, error) {
	out := []entity.Seat{}

	for _, s := range f.seats {
		if s.FloorNumber == floor {
			out = append(out, s)
		}
	}

	return out, nil
}

type fakeBookings struct {
	nextID    int
	available bool
	createErr error

	cafeBookings []entity.Booking
	seatBookings []entity.Booking
	roomBookings []entity.Booking
	events       []entity.Event

	lastBooked   entity.Booking
	lastToken    string
	updateCalls  int
	cancelCalls  int
	cancelUserID int
}

func (f *fakeBookings) CheckCafeAvailability(context.Context, string, time.Time) (bool, error) {
	return f.available, nil
}

func (f *fakeBookings) book(ctx context.Context, b entity.Booking, list *[]entity.Booking) (bookings.CreateResult, error) {
	if f.createErr != nil {
		return bookings.CreateResult{}, f.createErr
	}

	f.nextID++
	b.ID = f.nextID
	f.lastBooked = b
	f.lastToken = entity.TokenFromCtx(ctx)
	*list = append(*list, b)

	return bookings.CreateResult{BookingID: b.ID, Status: "confirmed"}, nil
}

func (f *fakeBookings) BookRoom(ctx context.Context, b entity.Booking) (bookings.CreateResult, error) {
	return f.book(ctx, b, &f.roomBookings)
}

func (f *fakeBookings) BookSeat(ctx context.Context, b entity.Booking) (bookings.CreateResult, error) {
	return f.book(ctx, b, &f.seatBookings)
}

func (f *fakeBookings) BookCafe(ctx context.Context, b entity.Booking) (bookings.CreateResult, error) {
	return f.book(ctx, b, &f.cafeBookings)
}

func (f *fakeBookings) update(id int, b entity.Booking, list []entity.Booking) error {
	f.updateCalls++

	for i := range list {
		if list[i].ID == id {
			list[i].Date = b.Date
			list[i].Details = b.Details
			return nil
		}
	}

	return entity.ErrNotFound
}

func (f *fakeBookings) UpdateSeatBooking(_ context.Context, id int, b entity.Booking) error {
	return f.update(id, b, f.seatBookings)
}

func (f *fakeBookings) UpdateCafeBooking(_ context.Context, id int, b entity.Booking) error {
	return f.update(id, b, f.cafeBookings)
}

func (f *fakeBookings) cancel(id int, list *[]entity.Booking) error {
	f.cancelCalls++

	for i := range *list {
		if (*list)[i].ID == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return nil
		}
	}

	return &entity.StoreError{StatusCode: 404, Message: "booking not found"}
}

func (f *fakeBookings) CancelRoomBooking(_ context.Context, id int) error {
	return f.cancel(id, &f.roomBookings)
}

func (f *fakeBookings) CancelSeatBooking(_ context.Context, id int) error {
	return f.cancel(id, &f.seatBookings)
}

func (f *fakeBookings) CancelCafeBooking(_ context.Context, id, userID int) error {
	f.cancelUserID = userID
	return f.cancel(id, &f.cafeBookings)
}

func (f *fakeBookings) RoomBookings(_ context.Context, userID int, _ time.Time) ([]entity.Booking, error) {
	return ownedBy(f.roomBookings, userID), nil
}

func (f *fakeBookings) SeatBookings(_ context.Context, userID int) ([]entity.Booking, error) {
	return ownedBy(f.seatBookings, userID), nil
}

func (f *fakeBookings) CafeBookings(_ context.Context, userID int) ([]entity.Booking, error) {
	return ownedBy(f.cafeBookings, userID), nil
}

func ownedBy(list []entity.Booking, userID int) []entity.Booking {
	out := []entity.Booking{}

	for _, b := range list {
		if b.UserID == userID {
			out = append(out, b)
		}
	}

	return out
}

func (f *fakeBookings) Events(context.Context) ([]entity.Event, error) { return f.events, nil }

func (f *fakeBookings) CreateEvent(_ context.Context, e entity.Event) (int, error) {
	f.nextID++
	e.ID = f.nextID
	f.events = append(f.events, e)

	return e.ID, nil
}

func (f *fakeBookings) UpdateEvent(_ context.Context, id int, e entity.Event) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i] = e
			f.events[i].ID = id

			return nil
		}
	}

	return entity.ErrNotFound
}

func (f *fakeBookings) DeleteEvent(_ context.Context, id, _ int) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}

	return entity.ErrNotFound
}

type fakeNotifications struct {
	unread    map[int][]entity.Notification
	readCalls int
}

func (f *fakeNotifications) Unread(_ context.Context, userID int) ([]entity.Notification, error) {
	return f.unread[userID], nil
}

func (f *fakeNotifications) MarkRead(context.Context, int, int) error {
	f.readCalls++
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Session: config.SessionConfig{
			JWTSecret: "test-secret",
			TTL:       time.Hour,
			Issuer:    "office-booking",
		},
	}
}

type fixture struct {
	svc           *service.Service
	store         *session.MemoryStore
	bookings      *fakeBookings
	directory     *fakeDirectory
	notifications *fakeNotifications
}

func newFixture(user entity.User) (*fixture, session.Session) {
	f := &fixture{
		store:         session.NewMemoryStore(time.Hour),
		bookings:      &fakeBookings{nextID: 41, available: true},
		directory:     &fakeDirectory{},
		notifications: &fakeNotifications{unread: map[int][]entity.Notification{}},
	}

	f.svc = service.NewService(
		testConfig(),
		&fakeAuth{user: user, token: "upstream-token"},
		f.directory,
		f.bookings,
		f.notifications,
		f.store,
	)

	sess, _, _ := f.svc.Login(context.Background(), user.Email, "secret")

	return f, sess
}

func TestLogin_OpensSessionWithParsableToken(t *testing.T) {
	t.Parallel()

	f := &fixture{
		store:         session.NewMemoryStore(time.Hour),
		bookings:      &fakeBookings{},
		directory:     &fakeDirectory{},
		notifications: &fakeNotifications{},
	}
	f.svc = service.NewService(testConfig(), &fakeAuth{user: employee, token: "upstream-token"},
		f.directory, f.bookings, f.notifications, f.store)

	sess, token, err := f.svc.Login(context.Background(), employee.Email, "secret")
	require.NoError(t, err)
	require.Equal(t, employee, sess.User)
	require.Equal(t, "upstream-token", sess.UpstreamToken)

	got, err := f.svc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, sess.ID, got.ID)
}

func TestAuthenticate_BadToken(t *testing.T) {
	t.Parallel()

	f, _ := newFixture(employee)

	_, err := f.svc.Authenticate(context.Background(), "garbage")
	require.ErrorIs(t, err, entity.ErrUnauthenticated)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)

	require.NoError(t, f.svc.Logout(context.Background(), sess))

	_, err := f.store.Get(context.Background(), sess.ID)
	require.ErrorIs(t, err, entity.ErrSessionExpired)
}

func TestCreateBooking_OwnerIsSessionUser(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)

	res, err := f.svc.CreateBooking(context.Background(), sess, entity.DomainCafe, service.BookingInput{
		ResourceRef: "Central",
		Date:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Details:     "team lunch",
	})
	require.NoError(t, err)
	require.Equal(t, 42, res.BookingID)
	require.Equal(t, "confirmed", res.Status)

	require.Equal(t, employee.ID, f.bookings.lastBooked.UserID)
	require.Equal(t, "upstream-token", f.bookings.lastToken, "upstream calls authenticate with the session's store token")
}

func TestCreateBooking_ValidationNeverReachesStore(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)

	_, err := f.svc.CreateBooking(context.Background(), sess, entity.DomainCafe, service.BookingInput{
		ResourceRef: "Central",
		// no date, no details
	})
	require.ErrorIs(t, err, entity.ErrValidation)
	require.Empty(t, f.bookings.cafeBookings)
}

func TestCreateBooking_UnknownDomain(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)

	_, err := f.svc.CreateBooking(context.Background(), sess, entity.Domain("parking"), service.BookingInput{})
	require.ErrorIs(t, err, entity.ErrValidation)
}

func TestCreateBooking_EventsRequireManagerAccess(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)

	_, err := f.svc.CreateBooking(context.Background(), sess, entity.DomainEvent, service.BookingInput{
		ResourceRef: "Town Hall",
		Date:        time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, entity.ErrForbidden)
	require.Empty(t, f.bookings.events, "the store must never see a forbidden request")
}

func TestCreateBooking_ManagerCreatesEvent(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(manager)

	res, err := f.svc.CreateBooking(context.Background(), sess, entity.DomainEvent, service.BookingInput{
		ResourceRef: "Town Hall",
		Date:        time.Date(2025, 3, 1, 17, 0, 0, 0, time.UTC),
		Details:     "quarterly all-hands",
	})
	require.NoError(t, err)
	require.Equal(t, "created", res.Status)

	require.Len(t, f.bookings.events, 1)
	require.Equal(t, "Town Hall", f.bookings.events[0].Name)
	require.Equal(t, manager.ID, f.bookings.events[0].CreatorID)
}

func TestUpdateBooking_ListReflectsChange(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)

	res, err := f.svc.CreateBooking(context.Background(), sess, entity.DomainCafe, service.BookingInput{
		ResourceRef: "Central",
		Date:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Details:     "lunch",
	})
	require.NoError(t, err)

	newTime := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)

	_, err = f.svc.UpdateBooking(context.Background(), sess, entity.DomainCafe, res.BookingID, service.BookingInput{
		ResourceRef: "Central",
		Date:        newTime,
		Details:     "moved lunch",
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.bookings.updateCalls)

	list, err := f.svc.Bookings(context.Background(), sess, entity.DomainCafe)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, newTime, list[0].Date)
}

func TestCancelBooking_PassesOwnerAndSurfacesSecondCancel(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)

	res, err := f.svc.CreateBooking(context.Background(), sess, entity.DomainCafe, service.BookingInput{
		ResourceRef: "Central",
		Date:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Details:     "lunch",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.CancelBooking(context.Background(), sess, entity.DomainCafe, res.BookingID))
	require.Equal(t, employee.ID, f.bookings.cancelUserID)

	err = f.svc.CancelBooking(context.Background(), sess, entity.DomainCafe, res.BookingID)
	require.Error(t, err)

	var storeErr *entity.StoreError
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, "booking not found", storeErr.Message)
}

func TestCheckAvailability_AdvisoryOnly(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)

	available, err := f.svc.CheckAvailability(context.Background(), sess, entity.DomainCafe,
		"Central", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, available)

	// The slot is taken between the probe and the submit; the rejection wins.
	f.bookings.createErr = &entity.StoreError{StatusCode: 409, Message: "no longer available"}

	_, err = f.svc.CreateBooking(context.Background(), sess, entity.DomainCafe, service.BookingInput{
		ResourceRef: "Central",
		Date:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Details:     "lunch",
	})
	require.Error(t, err)

	var storeErr *entity.StoreError
	require.ErrorAs(t, err, &storeErr)
	require.Equal(t, "no longer available", storeErr.Message)
}

func TestResources_SeatsAreFloorScoped(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)
	f.directory.seats = []entity.Seat{
		{Number: "S1-01", FloorNumber: 1},
		{Number: "S2-01", FloorNumber: 2},
	}

	resources, err := f.svc.Resources(context.Background(), sess, entity.DomainSeat, 2)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	require.Equal(t, "S2-01", resources[0].Ref)
}

func TestResources_RoomsFilteredByFloor(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)
	f.directory.rooms = []entity.Room{
		{ID: 1, Name: "Huddle", FloorNumber: 1},
		{ID: 2, Name: "Boardroom", FloorNumber: 2},
	}

	resources, err := f.svc.Resources(context.Background(), sess, entity.DomainRoom, 2)
	require.NoError(t, err)
	require.Len(t, resources, 1)
	require.Equal(t, "2", resources[0].Ref)

	// Unfiltered load returns everything.
	resources, err = f.svc.Resources(context.Background(), sess, entity.DomainRoom, 0)
	require.NoError(t, err)
	require.Len(t, resources, 2)
}

func TestParticipants_ExcludesCurrentUser(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)
	f.directory.users = []entity.User{employee, manager}

	users, err := f.svc.Participants(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, manager.ID, users[0].ID)
}

func TestNotifications_CountIsCachedOnFetch(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)
	f.notifications.unread[employee.ID] = []entity.Notification{
		{ID: 1, UserID: employee.ID, Title: "Booking confirmed"},
		{ID: 2, UserID: employee.ID, Title: "Reminder"},
	}

	list, err := f.svc.UnreadNotifications(context.Background(), sess)
	require.NoError(t, err)
	require.Len(t, list, 2)

	count, err := f.svc.UnreadCount(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestPollUnreadCounts_RefreshesEverySession(t *testing.T) {
	t.Parallel()

	f, sess := newFixture(employee)
	f.notifications.unread[employee.ID] = []entity.Notification{
		{ID: 1, UserID: employee.ID, Title: "Booking confirmed"},
	}

	require.NoError(t, f.svc.PollUnreadCounts(context.Background()))

	count, err := f.svc.UnreadCount(context.Background(), sess)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}
