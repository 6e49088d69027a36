package fixtures

import "github.com/okian/ukestate/pkg/logger"

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}
