package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/regulator.go/pkg/clock"
	fx "github.com/robotalks/regulator.go/pkg/framework"
	"github.com/robotalks/regulator.go/pkg/l0/serial"
	"github.com/robotalks/regulator.go/pkg/l0/xywth"
	"github.com/robotalks/regulator.go/pkg/l1"
	env "github.com/robotalks/regulator.go/pkg/l1/env/controller"
	"github.com/robotalks/regulator.go/pkg/regulator"
	"github.com/robotalks/regulator.go/pkg/sim/thermostat"
)

var simulate bool

func init() {
	env.SetControllerType(regulator.ControllerType, l1.ControllerMeta{Description: "XY-WTH1 climate regulator"})
	env.SetupFlags()
	serial.SetupFlags()
	regulator.SetupFlags()
	flag.BoolVar(&simulate, "sim", simulate, "Use a simulated relay module instead of the serial device.")
}

func main() {
	flag.Parse()
	defer glog.Flush()

	env := env.NewConfig().MustNewEnv()
	clk := clock.NewSystem()

	var port xywth.Port
	if simulate {
		port = thermostat.NewModule(clk)
	} else {
		p, err := serial.NewConfig().Open()
		if err != nil {
			glog.Exit(err)
		}
		defer p.Close()
		port = p
	}

	ctl, err := regulator.NewConfig().NewController(env.Config.Info.Ref, port, clk)
	if err != nil {
		glog.Exit(err)
	}
	defer ctl.Close()
	ctl.Registrar = env.Registrar

	loop := fx.NewLoop()
	loop.Clock = clk
	loop.Add(env, ctl)
	glog.Infof("%s registered at %v", ctl.Name(), env.RegistryURLs)
	if err := fx.NewRunner().HandleSignals().Go(loop).Wait(); err != nil {
		glog.Errorf("stopped: %v", err)
	}
}
