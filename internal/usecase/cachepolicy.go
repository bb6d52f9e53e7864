package usecase

import "time"

const maxCacheAgeInDays = 7

// IsCacheFresh сообщает, что снимок, сохраненный в timestamp, еще годен в момент now.
// Граница исключающая: снимок возрастом ровно семь суток уже устарел.
func IsCacheFresh(timestamp, now time.Time) bool {
	maxCacheAge := timestamp.UTC().AddDate(0, 0, maxCacheAgeInDays)
	return now.Before(maxCacheAge)
}
