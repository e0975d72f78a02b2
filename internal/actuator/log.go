package actuator

import "context"

// LogMotor logs motor commands instead of driving hardware.
type LogMotor struct {
	logger Logger
}

// NewLogMotor creates a motor that writes each command to logger.
func NewLogMotor(logger Logger) *LogMotor {
	return &LogMotor{logger: logger}
}

// Rotate logs the commanded state.
func (m *LogMotor) Rotate(ctx context.Context, state MotorState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.logger.Info("motor command", "state", state.String())
	return nil
}

// LogBuzzer logs buzzer commands instead of driving hardware.
type LogBuzzer struct {
	logger Logger
}

// NewLogBuzzer creates a buzzer that writes each command to logger.
func NewLogBuzzer(logger Logger) *LogBuzzer {
	return &LogBuzzer{logger: logger}
}

// On logs the buzzer switching on.
func (b *LogBuzzer) On(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.logger.Info("buzzer command", "on", true)
	return nil
}

// Off logs the buzzer switching off.
func (b *LogBuzzer) Off(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.logger.Info("buzzer command", "on", false)
	return nil
}
