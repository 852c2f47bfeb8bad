package logging

import "github.com/sirupsen/logrus"

// staticFieldHook stamps a fixed field on every entry
type staticFieldHook struct {
	key   string
	value interface{}
}

func (h *staticFieldHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *staticFieldHook) Fire(entry *logrus.Entry) error {
	if _, exists := entry.Data[h.key]; !exists {
		entry.Data[h.key] = h.value
	}
	return nil
}

// AddStaticField adds key=value to every entry the logger writes from now
// on, including entries of components that only hold the *logrus.Logger
func AddStaticField(logger *logrus.Logger, key string, value interface{}) {
	logger.AddHook(&staticFieldHook{key: key, value: value})
}
