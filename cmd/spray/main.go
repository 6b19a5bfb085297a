/*
Copyright © 2017 the spray authors.
This file is part of spray.

spray is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

spray is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with spray.  If not, see <http://www.gnu.org/licenses/>.
*/


// Command spray is a command-line interface for the spray parcel model.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/spray/sprayutil"
)

func main() {
	if err := sprayutil.Root.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
