package ports

import "cropline/internal/domain/farm"

type IntakeMetrics interface {
	RecordCallLogged(sentiment farm.Sentiment)
	RecordClassifierFallback()
	RecordFailure()
}

type SimMetrics interface {
	RecordSessionStarted()
	RecordSessionCompleted()
	RecordFarmerFallback()
	RecordIncapacitation()
}
