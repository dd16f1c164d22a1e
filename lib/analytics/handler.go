package analytics

import (
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"hrms-backend/db"
	attendancestore "hrms-backend/lib/attendance/store"
	leavestore "hrms-backend/lib/leave/store"
	usersstore "hrms-backend/lib/users/store"
	"hrms-backend/lib/utils/helpers"
	initchecker "hrms-backend/lib/utils/init-checker"
	"hrms-backend/models"
	analyticsapimodels "hrms-backend/models/api/analytics"
	dbmodels "hrms-backend/models/db"
)

type Provider interface {
	BurnoutRisks() ([]analyticsapimodels.BurnoutRisk, error)
	Happiness() ([]analyticsapimodels.HappinessBucket, error)
	Stats() (analyticsapimodels.Stats, error)
}

var Instance Provider

func NewHandler() {
	instance := impl{
		userStore:       usersstore.NewInstance(db.DB),
		attendanceStore: attendancestore.NewInstance(db.DB),
		leaveStore:      leavestore.NewInstance(db.DB),
		now:             time.Now,
	}
	initchecker.CheckInit(
		"userStore", instance.userStore,
		"attendanceStore", instance.attendanceStore,
		"leaveStore", instance.leaveStore,
	)
	Instance = instance
}

type impl struct {
	userStore       usersstore.Provider
	attendanceStore attendancestore.Provider
	leaveStore      leavestore.Provider
	now             func() time.Time
}

const (
	burnoutWindowDays   = 14
	happinessWindowDays = 30
	burnoutHours        = 9.0
	burnoutMoodShare    = 0.5
	burnoutMinSamples   = 3
)

type bucketDef struct {
	name  string
	color string
	moods []models.Mood
}

var happinessBuckets = []bucketDef{
	{name: "Happy", color: "#10B981", moods: []models.Mood{models.MoodHappy}},
	{name: "Neutral", color: "#F59E0B", moods: []models.Mood{models.MoodNeutral}},
	{name: "Stressed", color: "#EF4444", moods: []models.Mood{models.MoodSad, models.MoodTired, models.MoodStressed}},
}

// shown while there is no mood data yet
var defaultHappiness = []int{70, 20, 10}

func (i impl) window(days int) (from, to string) {
	now := i.now()
	return helpers.FormatDate(now.AddDate(0, 0, -(days - 1))), helpers.FormatDate(now)
}

func (i impl) BurnoutRisks() ([]analyticsapimodels.BurnoutRisk, error) {
	users, err := i.userStore.List()
	if err != nil {
		return nil, err
	}
	from, to := i.window(burnoutWindowDays)
	records, err := i.attendanceStore.List(attendancestore.ListFilter{From: from, To: to})
	if err != nil {
		log.WithError(err).Error("attendance load for burnout failed")
		return nil, err
	}
	byUser := map[string][]dbmodels.Attendance{}
	for _, rec := range records {
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}
	result := []analyticsapimodels.BurnoutRisk{}
	for _, user := range users {
		avgHours, moodShare, moodSamples := burnoutFigures(byUser[user.ID])
		if avgHours > burnoutHours || (moodSamples >= burnoutMinSamples && moodShare >= burnoutMoodShare) {
			result = append(result, analyticsapimodels.BurnoutRisk{
				User:              user.ToModel(),
				AvgHours:          avgHours,
				NegativeMoodShare: moodShare,
			})
		}
	}
	return result, nil
}

func burnoutFigures(records []dbmodels.Attendance) (avgHours, negativeShare float64, moodSamples int) {
	hoursSum, hoursCount, negative := 0.0, 0, 0
	for _, rec := range records {
		if rec.TotalHours != nil {
			hoursSum += *rec.TotalHours
			hoursCount++
		}
		if rec.Mood != nil {
			moodSamples++
			if rec.Mood.IsNegative() {
				negative++
			}
		}
	}
	if hoursCount > 0 {
		avgHours = round2(hoursSum / float64(hoursCount))
	}
	if moodSamples > 0 {
		negativeShare = round2(float64(negative) / float64(moodSamples))
	}
	return avgHours, negativeShare, moodSamples
}

func (i impl) Happiness() ([]analyticsapimodels.HappinessBucket, error) {
	from, to := i.window(happinessWindowDays)
	records, err := i.attendanceStore.List(attendancestore.ListFilter{From: from, To: to})
	if err != nil {
		log.WithError(err).Error("attendance load for happiness failed")
		return nil, err
	}
	counts := make([]int, len(happinessBuckets))
	total := 0
	for _, rec := range records {
		if rec.Mood == nil {
			continue
		}
		for idx, bucket := range happinessBuckets {
			if containsMood(bucket.moods, *rec.Mood) {
				counts[idx]++
				total++
				break
			}
		}
	}
	result := make([]analyticsapimodels.HappinessBucket, 0, len(happinessBuckets))
	for idx, bucket := range happinessBuckets {
		value := defaultHappiness[idx]
		if total > 0 {
			value = int(math.Round(float64(counts[idx]) * 100 / float64(total)))
		}
		result = append(result, analyticsapimodels.HappinessBucket{
			Name:  bucket.name,
			Value: value,
			Color: bucket.color,
		})
	}
	return result, nil
}

func (i impl) Stats() (analyticsapimodels.Stats, error) {
	today := helpers.FormatDate(i.now())
	total, err := i.userStore.Count()
	if err != nil {
		return analyticsapimodels.Stats{}, err
	}
	present, err := i.attendanceStore.CountByStatus(today, models.AttendancePresent)
	if err != nil {
		return analyticsapimodels.Stats{}, err
	}
	onLeave, err := i.leaveStore.ListApprovedOn(today)
	if err != nil {
		return analyticsapimodels.Stats{}, err
	}
	pending, err := i.leaveStore.CountByStatus(models.LeavePending)
	if err != nil {
		return analyticsapimodels.Stats{}, err
	}
	return analyticsapimodels.Stats{
		TotalEmployees: int(total),
		PresentToday:   int(present),
		OnLeave:        len(onLeave),
		PendingLeaves:  int(pending),
	}, nil
}

func containsMood(list []models.Mood, mood models.Mood) bool {
	for _, m := range list {
		if m == mood {
			return true
		}
	}
	return false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
